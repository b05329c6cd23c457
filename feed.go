package savingsplan

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog/log"
)

// Feed extracts price updates from an arbitrary JSON document. The two
// jsonpath expressions must each yield a list, of equal length, of
// timestamps and of prices.
//
// A Feed is a producer of input events for the core; the core itself
// never reads one.
type Feed struct {
	TimePath   string // jsonpath yielding the list of timestamps
	PricePath  string // jsonpath yielding the list of prices
	TimeLayout string // layout of the timestamps, RFC3339 when empty
}

// DecodeHistory reads a JSON document and returns the price points it
// contains, in document order. The points carry no currency; they take
// the instrument's one on import.
func (f Feed) DecodeHistory(r io.Reader) ([]PricePoint, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("invalid feed document: %w", err)
	}

	jtimes, err := jsonpath.Get(f.TimePath, jobj)
	if err != nil {
		return nil, fmt.Errorf("error extracting timestamps with %q: %w", f.TimePath, err)
	}
	jprices, err := jsonpath.Get(f.PricePath, jobj)
	if err != nil {
		return nil, fmt.Errorf("error extracting prices with %q: %w", f.PricePath, err)
	}

	times, ok := jtimes.([]any)
	if !ok {
		return nil, fmt.Errorf("%q must yield a list of timestamps, got %T", f.TimePath, jtimes)
	}
	prices, ok := jprices.([]any)
	if !ok {
		return nil, fmt.Errorf("%q must yield a list of prices, got %T", f.PricePath, jprices)
	}
	if len(times) != len(prices) {
		return nil, fmt.Errorf("feed mismatch: %d timestamps for %d prices", len(times), len(prices))
	}

	layout := f.TimeLayout
	if layout == "" {
		layout = time.RFC3339
	}

	points := make([]PricePoint, 0, len(times))
	for i := range times {
		str, ok := times[i].(string)
		if !ok {
			return nil, fmt.Errorf("timestamp %d is not a string: %v", i, times[i])
		}
		on, err := time.Parse(layout, str)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", str, err)
		}
		val, ok := prices[i].(float64)
		if !ok {
			return nil, fmt.Errorf("price %d is not a number: %v", i, prices[i])
		}
		points = append(points, PricePoint{On: on, Price: M(val, "")})
	}
	return points, nil
}

// Import decodes a history document and appends every point to the
// instrument's price history, in document order. It returns the number
// of points imported.
func (f Feed) Import(inst *Instrument, r io.Reader) (int, error) {
	points, err := f.DecodeHistory(r)
	if err != nil {
		return 0, err
	}
	for i, p := range points {
		price := M(p.Price.value, inst.current.Currency())
		if err := inst.UpdatePrice(price, p.On); err != nil {
			return i, fmt.Errorf("point %d: %w", i, err)
		}
	}
	return len(points), nil
}

// LatestQuote fetches a JSON document over HTTP and extracts a single
// price from it with a jsonpath expression.
func LatestQuote(client *http.Client, addr, path string) (float64, error) {
	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return 0, fmt.Errorf("error in wget %q: %w", addr, err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("error extracting quote: %q %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("quote at %q is not a number: %v", path, jval)
	}
	return val, nil
}

// diskCache implements a simple disk cache for HTTP responses.
// The cache key includes the current day, so entries expire daily.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := fmt.Sprintf("%s %s %s", time.Now().UTC().Format("2006-01-02"), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	if resp, err := c.get(key, req); err == nil { // Cache hit
		return resp, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("url", req.URL.String()).Str("status", resp.Status).Msg("feed fetch")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		log.Warn().Err(err).Msg("feed cache write failed (ignored)")
	}
	return resp, nil
}

func (c *diskCache) path(key string) string {
	return filepath.Join(os.TempDir(), "savingsplan-feed", key)
}

func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	f, err := os.Open(c.path(key))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(data)), req)
}

func (c *diskCache) put(key string, resp *http.Response) error {
	dump, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	// The body was consumed by the dump; rebuild it for the caller.
	rebuilt, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(dump)), resp.Request)
	if err != nil {
		return err
	}
	*resp = *rebuilt

	if err := os.MkdirAll(filepath.Dir(c.path(key)), 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.path(key), dump, 0o644)
}

// jwget issues a GET through a day-scoped disk cache and decodes the
// JSON body into v.
func jwget(client *http.Client, addr string, v any) error {
	if client == nil {
		client = new(http.Client)
	}
	if client.Transport == nil {
		client.Transport = &diskCache{base: http.DefaultTransport}
	}
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("GET %s: %s", addr, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
