package storage

import (
	"context"
	"fmt"

	"github.com/levenlabs/go-lflag"
)

// Configured sets up the Storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "firestore", "Storage provider to use (available: firestore, sqlite, postgres)")
	dsn := lflag.String("sql-dsn", "ratecast.db", "DSN for the sqlite or postgres storage provider")

	var p struct{ Database }

	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			p.Database = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		case "sqlite", "postgres":
			g := NewGormProvider(*provider, *dsn)
			if err := g.Validate(); err != nil {
				panic(fmt.Sprintf("%s validation failed: %v", *provider, err))
			}
			p.Database = g
			if err := g.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("%s init failed: %v", *provider, err))
			}
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}
