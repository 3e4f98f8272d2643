package utility

import (
	"context"
	"errors"

	"github.com/ratecast/ratecast/pkg/types"
)

// ErrRateFetch is wrapped by every error a Provider returns when the rate
// directory couldn't be read.
var ErrRateFetch = errors.New("failed to fetch utility rates")

// Provider fetches the raw rate plans that apply to an address.
type Provider interface {
	// RatePlans returns the directory's records for the address. The returned
	// records are shared and must not be modified.
	RatePlans(ctx context.Context, address string) ([]types.RawRatePlanRecord, error)
}

// directoryResponse is the envelope the rate directory wraps results in.
type directoryResponse struct {
	Items []types.RawRatePlanRecord `json:"items"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
