package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"

	"github.com/AndrewChmutov/big-medicine/internal/config"
)

// NewSession connects to the cluster with retry logic and bootstraps the
// configured keyspace. Retries with exponential backoff: 1s, 2s, 4s, 8s, 16s.
//
// The session is opened without a bound keyspace so that bootstrap (and a
// later /clean) can recreate it; every statement in this module is
// keyspace-qualified instead.
func NewSession(ctx context.Context, cfg config.CassandraConfig, maxRetries int) (*gocql.Session, error) {
	cluster := gocql.NewCluster(cfg.Points...)
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 10 * time.Second
	cluster.ConnectTimeout = 10 * time.Second

	var session *gocql.Session
	var err error

	attempts := maxRetries
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		session, err = cluster.CreateSession()
		if err == nil {
			if bootErr := Bootstrap(ctx, session, cfg.Keyspace, cfg.ReplFactor); bootErr == nil {
				log.Info().Strs("points", cfg.Points).Str("keyspace", cfg.Keyspace).
					Msg("store connection established")
				return session, nil
			} else {
				session.Close()
				err = fmt.Errorf("bootstrap keyspace: %w", bootErr)
			}
		}

		backoff := time.Duration(1<<attempt) * time.Second
		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_retries", maxRetries).
			Dur("next_retry_in", backoff).
			Msg("store connection failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", attempts, err)
}

// Bootstrap creates the keyspace (simple replication) and syncs the tables.
// Safe to call on an already-bootstrapped keyspace.
func Bootstrap(ctx context.Context, session *gocql.Session, keyspace string, replFactor int) error {
	if err := EnsureKeyspace(ctx, session, keyspace, replFactor); err != nil {
		return err
	}
	return SyncTables(ctx, session, keyspace)
}

// EnsureKeyspace creates the keyspace with SimpleStrategy replication if it
// does not exist yet.
func EnsureKeyspace(ctx context.Context, session *gocql.Session, keyspace string, replFactor int) error {
	stmt := fmt.Sprintf(
		`CREATE KEYSPACE IF NOT EXISTS %s WITH replication = `+
			`{'class': 'SimpleStrategy', 'replication_factor': %d}`,
		keyspace, replFactor,
	)
	if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("create keyspace %s: %w", keyspace, err)
	}
	return nil
}

// DropKeyspace removes the keyspace and everything in it.
func DropKeyspace(ctx context.Context, session *gocql.Session, keyspace string) error {
	stmt := fmt.Sprintf("DROP KEYSPACE IF EXISTS %s", keyspace)
	if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("drop keyspace %s: %w", keyspace, err)
	}
	return nil
}

// SyncTables creates the medicine and reservation tables if they are missing.
func SyncTables(ctx context.Context, session *gocql.Session, keyspace string) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.medicine (
			name TEXT PRIMARY KEY,
			count INT,
			substitutes LIST<TEXT>,
			side_effects LIST<TEXT>,
			uses LIST<TEXT>,
			chemical_class TEXT,
			habit_forming TEXT,
			therapeutic_class TEXT,
			action_class TEXT
		)`, keyspace),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.reservation (
			reservation_id UUID,
			id UUID,
			account_name TEXT,
			medicine TEXT,
			count INT,
			PRIMARY KEY (reservation_id, id, account_name)
		)`, keyspace),
	}
	for _, stmt := range stmts {
		if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return fmt.Errorf("sync tables in %s: %w", keyspace, err)
		}
	}
	return nil
}
