// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"options-analytics/internal/models"
)

// DataStore defines the interface for persisting analytics inputs:
// chain snapshots and saved strategy definitions. Computed results are
// never stored; they are recomputed from inputs on demand.
type DataStore interface {
	// Chain snapshots
	SaveChain(ctx context.Context, chain *models.OptionChain) error
	GetChain(ctx context.Context, symbol string, expiry time.Time) (*models.OptionChain, error)
	GetLatestChain(ctx context.Context, symbol string) (*models.OptionChain, error)
	ListChainExpiries(ctx context.Context, symbol string) ([]time.Time, error)

	// Saved strategies
	SaveStrategy(ctx context.Context, name string, strategy *models.Strategy) error
	GetStrategy(ctx context.Context, name string) (*models.Strategy, error)
	ListStrategies(ctx context.Context) ([]string, error)
	DeleteStrategy(ctx context.Context, name string) error

	Close() error
}
