package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"SkewSentinel/internal/model"
)

// nseExpiryLayout matches the NSE API's expiry date strings, e.g. "25-Jan-2024".
const nseExpiryLayout = "02-Jan-2006"

// NSEFetcher pulls index option chains from the NSE public API.
type NSEFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewNSEFetcher creates a fetcher with optional proxy support. baseURL is
// overridable for testing; empty means the public NSE endpoint.
func NewNSEFetcher(baseURL, proxyURL string) *NSEFetcher {
	if baseURL == "" {
		baseURL = "https://www.nseindia.com"
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &NSEFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *NSEFetcher) Name() string { return "nse" }

// nseOptionQuote is the per-side block inside one chain record.
type nseOptionQuote struct {
	ImpliedVolatility float64 `json:"impliedVolatility"`
}

// nseChain is the shape of the NSE option-chain response we consume.
type nseChain struct {
	Records struct {
		UnderlyingValue float64 `json:"underlyingValue"`
		Data            []struct {
			StrikePrice float64         `json:"strikePrice"`
			ExpiryDate  string          `json:"expiryDate"`
			CE          *nseOptionQuote `json:"CE"`
			PE          *nseOptionQuote `json:"PE"`
		} `json:"data"`
	} `json:"records"`
}

func (f *NSEFetcher) FetchChain(symbol string) (*Chain, error) {
	endpoint := fmt.Sprintf("%s/api/option-chain-indices?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	// The NSE API rejects requests without browser-like headers.
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", "https://www.nseindia.com/")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nse fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nse read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nse: status %d, body: %s", resp.StatusCode, string(body))
	}

	return parseNSEChain(body, symbol, time.Now())
}

// parseNSEChain decodes an NSE option-chain payload into per-side snapshots.
func parseNSEChain(body []byte, symbol string, fetchedAt time.Time) (*Chain, error) {
	var raw nseChain
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("nse decode: %w", err)
	}
	if len(raw.Records.Data) == 0 {
		return nil, fmt.Errorf("nse: no chain data for %s", symbol)
	}

	chain := &Chain{
		Symbol:     symbol,
		FetchedAt:  fetchedAt,
		QuotedSpot: raw.Records.UnderlyingValue,
		Calls:      model.Snapshot{Symbol: symbol, Side: model.SideCalls, FetchedAt: fetchedAt},
		Puts:       model.Snapshot{Symbol: symbol, Side: model.SidePuts, FetchedAt: fetchedAt},
	}
	for _, rec := range raw.Records.Data {
		expiry, err := time.Parse(nseExpiryLayout, rec.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("nse: bad expiry %q: %w", rec.ExpiryDate, err)
		}
		if rec.CE != nil {
			chain.Calls.Quotes = append(chain.Calls.Quotes, model.OptionQuote{
				Strike:     rec.StrikePrice,
				Expiry:     expiry,
				Side:       model.SideCalls,
				ImpliedVol: rec.CE.ImpliedVolatility,
			})
		}
		if rec.PE != nil {
			chain.Puts.Quotes = append(chain.Puts.Quotes, model.OptionQuote{
				Strike:     rec.StrikePrice,
				Expiry:     expiry,
				Side:       model.SidePuts,
				ImpliedVol: rec.PE.ImpliedVolatility,
			})
		}
	}
	return chain, nil
}
