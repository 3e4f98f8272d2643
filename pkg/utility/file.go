package utility

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/levenlabs/go-lflag"

	"github.com/ratecast/ratecast/pkg/types"
)

// File serves rate plans from a saved directory response on disk. Every
// address gets the same plans.
type File struct {
	path string
}

// NewFile returns a File provider reading path.
func NewFile(path string) *File {
	return &File{path: path}
}

func configuredFile() *File {
	path := lflag.String("rate-file", "", "Path to a saved OpenEI response to serve rate plans from")

	f := &File{}
	lflag.Do(func() {
		f.path = *path
	})
	return f
}

// Validate ensures the configuration is valid.
func (f *File) Validate() error {
	if f.path == "" {
		return fmt.Errorf("rate-file is required")
	}
	return nil
}

// RatePlans implements Provider. The file is read on every call so it can be
// edited while the server is running.
func (f *File) RatePlans(ctx context.Context, address string) ([]types.RawRatePlanRecord, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRateFetch, err)
	}
	var data directoryResponse
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %w", ErrRateFetch, f.path, err)
	}
	return data.Items, nil
}
