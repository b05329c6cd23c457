// Package savingsplan models a simple investment account: a cash
// balance, tradable instruments with price histories, an append-only
// transaction log, and a valuation engine that replays the log to
// produce a portfolio-value time series.
//
// The package is a pure in-memory computation layer. Price feeds,
// random-walk simulation and reporting are collaborators that produce
// input events for, or consume series from, this core; they live in
// the cmd and renderer packages.
package savingsplan
