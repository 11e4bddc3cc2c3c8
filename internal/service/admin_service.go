package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AdminRepositoryInterface defines the store maintenance operations used by
// the admin surface.
type AdminRepositoryInterface interface {
	RecreateKeyspace(ctx context.Context) error
	Execute(ctx context.Context, query string) ([]map[string]interface{}, error)
}

// AdminService serves the admin/debug routes.
type AdminService struct {
	admin AdminRepositoryInterface
}

// NewAdminService creates an AdminService with the given repository.
func NewAdminService(admin AdminRepositoryInterface) *AdminService {
	return &AdminService{admin: admin}
}

// Clean drops the working keyspace and recreates it with empty tables.
func (s *AdminService) Clean(ctx context.Context) error {
	log.Info().Msg("cleaning the database")
	if err := s.admin.RecreateKeyspace(ctx); err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	return nil
}

// Direct executes a raw store query and returns its rows.
func (s *AdminService) Direct(ctx context.Context, query string) ([]map[string]interface{}, error) {
	rows, err := s.admin.Execute(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("direct: %w", err)
	}
	return rows, nil
}
