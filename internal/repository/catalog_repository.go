package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"
	"golang.org/x/sync/errgroup"

	"github.com/AndrewChmutov/big-medicine/internal/model"
	"github.com/AndrewChmutov/big-medicine/pkg/database"
)

// CatalogRepository provides access to the medicine catalog: count reads and
// the conditional count write the reservation coordinator is built on.
type CatalogRepository struct {
	session *gocql.Session
	stmts   *database.Statements
}

// NewCatalogRepository creates a CatalogRepository over the given session and
// statement bundle.
func NewCatalogRepository(session *gocql.Session, stmts *database.Statements) *CatalogRepository {
	return &CatalogRepository{session: session, stmts: stmts}
}

// ReadCounts reads the current count of every named medicine. Reads are
// issued concurrently at the strongest consistency; results come back in
// input order, with Exists=false for names without a catalog row.
func (r *CatalogRepository) ReadCounts(ctx context.Context, names []string) ([]model.CatalogCount, error) {
	counts := make([]model.CatalogCount, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			var count int
			err := r.session.Query(r.stmts.SelectCount, name).
				WithContext(gctx).
				Consistency(gocql.All).
				Scan(&count)
			switch {
			case errors.Is(err, gocql.ErrNotFound):
				counts[i] = model.CatalogCount{Name: name}
			case err != nil:
				return fmt.Errorf("read count of %s: %w", name, err)
			default:
				counts[i] = model.CatalogCount{Name: name, Count: count, Exists: true}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// CompareAndSetCount sets count = next for the named medicine if its current
// value equals expected. Returns whether the condition held.
func (r *CatalogRepository) CompareAndSetCount(ctx context.Context, name string, expected, next int) (bool, error) {
	previous := make(map[string]interface{})
	applied, err := r.session.Query(r.stmts.CASCount, next, name, expected).
		WithContext(ctx).
		Consistency(gocql.All).
		SerialConsistency(gocql.Serial).
		MapScanCAS(previous)
	if err != nil {
		return false, fmt.Errorf("cas count of %s: %w", name, err)
	}
	return applied, nil
}

// Medicine returns the full catalog row for name as a key/value object, or
// nil when no such row exists. Uses default consistency: the lookup does not
// participate in reservation logic.
func (r *CatalogRepository) Medicine(ctx context.Context, name string) (map[string]interface{}, error) {
	row := make(map[string]interface{})
	err := r.session.Query(r.stmts.SelectMedicine, name).
		WithContext(ctx).
		MapScan(row)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get medicine %s: %w", name, err)
	}
	return row, nil
}
