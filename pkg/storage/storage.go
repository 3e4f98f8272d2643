package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ratecast/ratecast/pkg/types"
)

var (
	ErrProjectNotFound = errors.New("project not found")
)

const (
	// DefaultListLimit is used when ListProjects is called without a limit.
	DefaultListLimit = 50
	// MaxListLimit caps how many projects ListProjects returns at once.
	MaxListLimit = 500
)

// Database defines the interface for persisting projects.
type Database interface {
	// CreateProject saves the project and its proposal utility, if any, in a
	// single atomic write. An ID and creation time are assigned when empty and
	// the saved project is returned.
	CreateProject(ctx context.Context, project types.Project) (types.Project, error)

	// GetProject returns ErrProjectNotFound if no project has the ID.
	GetProject(ctx context.Context, id string) (types.Project, error)

	// ListProjects returns the newest projects first. An empty userID lists
	// projects from every user.
	ListProjects(ctx context.Context, userID string, limit int) ([]types.Project, error)

	// Lifecycle
	Close() error
}

// prepareProject fills in the fields the store is responsible for.
func prepareProject(p types.Project) types.Project {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	// stores differ in how much precision they keep
	p.CreatedAt = p.CreatedAt.UTC().Truncate(time.Microsecond)
	return p
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}
