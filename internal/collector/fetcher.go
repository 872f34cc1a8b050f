package collector

import (
	"time"

	"SkewSentinel/internal/model"
)

// Chain is one full option-chain pull, split by instrument side.
type Chain struct {
	Symbol    string
	FetchedAt time.Time
	// QuotedSpot is the underlying value reported by the data source,
	// 0 when the source doesn't provide one.
	QuotedSpot float64
	Calls      model.Snapshot
	Puts       model.Snapshot
}

// Fetcher defines the interface for pulling an option-chain snapshot.
type Fetcher interface {
	FetchChain(symbol string) (*Chain, error)
	Name() string
}
