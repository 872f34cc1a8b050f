package collector

import (
	"fmt"
	"log"
	"time"

	"SkewSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Spot  float64
	Chain *Chain
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchChain(symbol string) (*Chain, error) {
	if m.Chain != nil {
		return m.Chain, nil
	}
	return generateMockChain(symbol, m.Spot), nil
}

// generateMockChain builds a small two-expiry chain around the given spot.
func generateMockChain(symbol string, spot float64) *Chain {
	now := time.Now()
	chain := &Chain{
		Symbol:     symbol,
		FetchedAt:  now,
		QuotedSpot: spot,
		Calls:      model.Snapshot{Symbol: symbol, Side: model.SideCalls, FetchedAt: now},
		Puts:       model.Snapshot{Symbol: symbol, Side: model.SidePuts, FetchedAt: now},
	}
	expiries := []time.Time{
		model.DateOnly(now.AddDate(0, 0, 7)),
		model.DateOnly(now.AddDate(0, 1, 0)),
	}
	for _, expiry := range expiries {
		for i := -3; i <= 3; i++ {
			strike := spot + float64(i)*50
			iv := 0.20 + 0.01*float64(i*i) // gentle smile around ATM
			chain.Calls.Quotes = append(chain.Calls.Quotes, model.OptionQuote{
				Strike: strike, Expiry: expiry, Side: model.SideCalls, ImpliedVol: iv,
			})
			chain.Puts.Quotes = append(chain.Puts.Quotes, model.OptionQuote{
				Strike: strike, Expiry: expiry, Side: model.SidePuts, ImpliedVol: iv + 0.005,
			})
		}
	}
	return chain
}

// Collector pulls and validates one chain snapshot per cycle.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol}
}

// Collect fetches the chain and rejects empty pulls so a malformed fetch
// aborts the cycle before any baseline write.
func (c *Collector) Collect() (*Chain, error) {
	chain, err := c.Fetcher.FetchChain(c.Symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch chain: %w", err)
	}
	if len(chain.Calls.Quotes) == 0 && len(chain.Puts.Quotes) == 0 {
		return nil, fmt.Errorf("empty chain for %s", c.Symbol)
	}
	log.Printf("[INFO] fetched %s chain: %d call quotes, %d put quotes, quoted spot %.2f",
		c.Symbol, len(chain.Calls.Quotes), len(chain.Puts.Quotes), chain.QuotedSpot)
	return chain, nil
}
