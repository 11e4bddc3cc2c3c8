package service

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"

	"github.com/AndrewChmutov/big-medicine/internal/model"
)

// QueryService aggregates reservation line rows into reservation objects and
// serves catalog lookups.
type QueryService struct {
	catalog      CatalogRepositoryInterface
	reservations ReservationRepositoryInterface
}

// NewQueryService creates a QueryService with the given repositories.
func NewQueryService(catalog CatalogRepositoryInterface, reservations ReservationRepositoryInterface) *QueryService {
	return &QueryService{catalog: catalog, reservations: reservations}
}

// QueryByID returns the reservation identified by id.
func (s *QueryService) QueryByID(ctx context.Context, id string) (model.ReservationEntryItem, error) {
	reservationID, err := gocql.ParseUUID(id)
	if err != nil {
		return model.ReservationEntryItem{}, ErrInvalidUUID
	}

	lines, err := s.reservations.SelectByReservationID(ctx, reservationID)
	if err != nil {
		return model.ReservationEntryItem{}, fmt.Errorf("query reservation: %w", err)
	}
	if len(lines) == 0 {
		return model.ReservationEntryItem{}, ErrNoSuchReservation
	}
	return groupLines(lines)[0], nil
}

// QueryByAccount returns every reservation owned by the account.
func (s *QueryService) QueryByAccount(ctx context.Context, name string) ([]model.ReservationEntryItem, error) {
	lines, err := s.reservations.SelectByAccountName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("query account reservations: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrNoReservations
	}
	return groupLines(lines), nil
}

// QueryAll returns every reservation in the system.
func (s *QueryService) QueryAll(ctx context.Context) ([]model.ReservationEntryItem, error) {
	lines, err := s.reservations.SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("query all reservations: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrNoReservations
	}
	return groupLines(lines), nil
}

// Medicine returns the catalog row for name as a key/value object, or nil
// when the catalog has no such row.
func (s *QueryService) Medicine(ctx context.Context, name string) (map[string]interface{}, error) {
	row, err := s.catalog.Medicine(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("query medicine: %w", err)
	}
	return row, nil
}

// groupLines folds line rows into one reservation object per reservation id.
// Groups appear in the order their first row appears; the account name is
// taken from the first row of each group, which all rows of a reservation
// share by invariant.
func groupLines(lines []model.ReservationLine) []model.ReservationEntryItem {
	grouped := make(map[gocql.UUID]int)
	items := make([]model.ReservationEntryItem, 0)
	for _, line := range lines {
		idx, seen := grouped[line.ReservationID]
		if !seen {
			idx = len(items)
			grouped[line.ReservationID] = idx
			items = append(items, model.ReservationEntryItem{
				ID:          line.ReservationID.String(),
				AccountName: line.AccountName,
			})
		}
		items[idx].Entries = append(items[idx].Entries, model.MedicineEntry{
			Name:  line.Medicine,
			Count: line.Count,
		})
	}
	return items
}
