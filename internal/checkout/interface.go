package checkout

import "context"

// Cache is the string-keyed durable store the table is persisted in.
type Cache interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Fetcher downloads the raw checkout table.
type Fetcher interface {
	FetchCheckouts(ctx context.Context) ([]byte, error)
}

// Lookup resolves a remaining score to a checkout. A nil checkout with a nil
// error means no finish exists.
type Lookup interface {
	GetCheckout(ctx context.Context, remaining int) (*Checkout, error)
}
