package savingsplan

import "errors"

// ErrInvalidInput reports a non-positive amount or price, or a missing
// instrument reference.
var ErrInvalidInput = errors.New("invalid input")

// ErrInsufficientFunds reports a buy whose cost exceeds the account's
// cash balance.
var ErrInsufficientFunds = errors.New("insufficient funds")
