package repository

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"

	"github.com/AndrewChmutov/big-medicine/internal/config"
	"github.com/AndrewChmutov/big-medicine/pkg/database"
)

// AdminRepository provides keyspace maintenance and raw query execution for
// the admin surface.
type AdminRepository struct {
	session *gocql.Session
	cfg     config.CassandraConfig
}

// NewAdminRepository creates an AdminRepository over the given session.
func NewAdminRepository(session *gocql.Session, cfg config.CassandraConfig) *AdminRepository {
	return &AdminRepository{session: session, cfg: cfg}
}

// RecreateKeyspace drops the working keyspace, recreates it at the configured
// replication factor and syncs the table schemas.
func (r *AdminRepository) RecreateKeyspace(ctx context.Context) error {
	log.Info().Str("keyspace", r.cfg.Keyspace).Msg("recreating keyspace")
	if err := database.DropKeyspace(ctx, r.session, r.cfg.Keyspace); err != nil {
		return err
	}
	return database.Bootstrap(ctx, r.session, r.cfg.Keyspace, r.cfg.ReplFactor)
}

// Execute runs a raw CQL query and returns the resulting rows.
func (r *AdminRepository) Execute(ctx context.Context, query string) ([]map[string]interface{}, error) {
	rows, err := r.session.Query(query).WithContext(ctx).Iter().SliceMap()
	if err != nil {
		return nil, fmt.Errorf("execute %q: %w", query, err)
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	return rows, nil
}
