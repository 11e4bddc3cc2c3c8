package service

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"

	"github.com/AndrewChmutov/big-medicine/internal/metrics"
	"github.com/AndrewChmutov/big-medicine/internal/model"
)

// CatalogRepositoryInterface defines the catalog primitives the coordinator
// runs on: order-preserving count reads and a per-row conditional write.
type CatalogRepositoryInterface interface {
	ReadCounts(ctx context.Context, names []string) ([]model.CatalogCount, error)
	CompareAndSetCount(ctx context.Context, name string, expected, next int) (bool, error)
	Medicine(ctx context.Context, name string) (map[string]interface{}, error)
}

// ReservationRepositoryInterface defines row-level access to reservation lines.
type ReservationRepositoryInterface interface {
	InsertLines(ctx context.Context, lines []model.ReservationLine) error
	DeleteByReservationID(ctx context.Context, id gocql.UUID) error
	SelectByReservationID(ctx context.Context, id gocql.UUID) ([]model.ReservationLine, error)
	SelectByAccountName(ctx context.Context, name string) ([]model.ReservationLine, error)
	SelectAll(ctx context.Context) ([]model.ReservationLine, error)
}

const (
	// maxCASAttempts bounds how often a contended count write is retried
	// after a re-read before the workflow is rolled back. Every lost attempt
	// implies a concurrent writer made progress, so the bound is only hit
	// under pathological contention.
	maxCASAttempts = 8

	// maxCompensationAttempts bounds the re-read/CAS retry loop of a single
	// reverse write before compensation is declared failed.
	maxCompensationAttempts = 8
)

// ReservationService coordinates multi-item reservations over a store that
// offers only per-row compare-and-set. Inventory is decremented one medicine
// at a time in entry order; when a later step fails, compensating reverse
// writes return the units taken by the earlier steps.
type ReservationService struct {
	catalog      CatalogRepositoryInterface
	reservations ReservationRepositoryInterface
	monitor      *metrics.Monitor
}

// NewReservationService creates a ReservationService with the given
// repositories and monitor. The monitor may be nil.
func NewReservationService(catalog CatalogRepositoryInterface, reservations ReservationRepositoryInterface, monitor *metrics.Monitor) *ReservationService {
	return &ReservationService{
		catalog:      catalog,
		reservations: reservations,
		monitor:      monitor,
	}
}

// appliedStep records one committed count decrement so it can be reversed.
// Debit is the number of units removed from the catalog; negative when an
// update credited units back.
type appliedStep struct {
	name  string
	debit int
}

// Reserve atomically reserves every entry for the account and returns the new
// reservation id. Entries are processed in input order. On any failure after
// the first committed decrement, the committed steps are compensated before
// the error is returned.
func (s *ReservationService) Reserve(ctx context.Context, accountName string, entries []model.MedicineEntry) (gocql.UUID, error) {
	defer s.monitor.TimeWorkflow("reserve")()

	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name
	}

	counts, err := s.catalog.ReadCounts(ctx, names)
	if err != nil {
		return gocql.UUID{}, fmt.Errorf("reserve: %w", err)
	}
	for _, count := range counts {
		if !count.Exists {
			return gocql.UUID{}, &UnknownMedicineError{Name: count.Name}
		}
	}

	var applied []appliedStep
	for i, entry := range entries {
		if err := s.decrement(ctx, entry.Name, entry.Count, 0, counts[i].Count); err != nil {
			return gocql.UUID{}, s.fail(ctx, applied, err)
		}
		applied = append(applied, appliedStep{name: entry.Name, debit: entry.Count})
	}

	reservationID, err := gocql.RandomUUID()
	if err != nil {
		return gocql.UUID{}, s.fail(ctx, applied, fmt.Errorf("allocate reservation id: %w", err))
	}
	lines, err := buildLines(reservationID, accountName, entries)
	if err != nil {
		return gocql.UUID{}, s.fail(ctx, applied, err)
	}
	if err := s.reservations.InsertLines(ctx, lines); err != nil {
		return gocql.UUID{}, s.fail(ctx, applied, fmt.Errorf("reserve: %w", err))
	}

	log.Info().
		Str("reservation_id", reservationID.String()).
		Str("account_name", accountName).
		Int("lines", len(lines)).
		Msg("reservation created")
	return reservationID, nil
}

// Update replaces the reservation identified by id with the new entry set,
// adjusting inventory by the per-medicine delta against what the reservation
// previously held. Medicines dropped from the new set are re-credited in full.
func (s *ReservationService) Update(ctx context.Context, id string, entries []model.MedicineEntry) (gocql.UUID, error) {
	defer s.monitor.TimeWorkflow("update")()

	reservationID, err := gocql.ParseUUID(id)
	if err != nil {
		return gocql.UUID{}, ErrInvalidUUID
	}

	existing, err := s.reservations.SelectByReservationID(ctx, reservationID)
	if err != nil {
		return gocql.UUID{}, fmt.Errorf("update: %w", err)
	}
	if len(existing) == 0 {
		return gocql.UUID{}, ErrNoSuchReservation
	}
	accountName := existing[0].AccountName

	previous := make(map[string]int, len(existing))
	for _, line := range existing {
		previous[line.Medicine] += line.Count
	}

	// The CAS loop covers the new entries plus, at a target of zero, every
	// medicine the old reservation held that the new set dropped.
	targets := make([]model.MedicineEntry, 0, len(entries)+len(existing))
	targets = append(targets, entries...)
	inNew := make(map[string]bool, len(entries))
	for _, entry := range entries {
		inNew[entry.Name] = true
	}
	for _, line := range existing {
		if !inNew[line.Medicine] {
			targets = append(targets, model.MedicineEntry{Name: line.Medicine, Count: 0})
			inNew[line.Medicine] = true
		}
	}

	names := make([]string, len(targets))
	for i, target := range targets {
		names[i] = target.Name
	}
	counts, err := s.catalog.ReadCounts(ctx, names)
	if err != nil {
		return gocql.UUID{}, fmt.Errorf("update: %w", err)
	}
	for _, count := range counts {
		if !count.Exists {
			return gocql.UUID{}, &UnknownMedicineError{Name: count.Name}
		}
	}

	var applied []appliedStep
	for i, target := range targets {
		if err := s.decrement(ctx, target.Name, target.Count, previous[target.Name], counts[i].Count); err != nil {
			return gocql.UUID{}, s.fail(ctx, applied, err)
		}
		applied = append(applied, appliedStep{name: target.Name, debit: target.Count - previous[target.Name]})
	}

	// Replace the line set under the same reservation id and account.
	if err := s.reservations.DeleteByReservationID(ctx, reservationID); err != nil {
		return gocql.UUID{}, s.fail(ctx, applied, fmt.Errorf("update: %w", err))
	}
	lines, err := buildLines(reservationID, accountName, entries)
	if err != nil {
		return gocql.UUID{}, s.fail(ctx, applied, err)
	}
	if err := s.reservations.InsertLines(ctx, lines); err != nil {
		return gocql.UUID{}, s.fail(ctx, applied, fmt.Errorf("update: %w", err))
	}

	log.Info().
		Str("reservation_id", reservationID.String()).
		Str("account_name", accountName).
		Int("lines", len(lines)).
		Msg("reservation updated")
	return reservationID, nil
}

// decrement moves the catalog count of name from current to
// current + prev - want, retrying contended writes with a fresh read. prev
// is the quantity the surrounding workflow already holds for name (zero on
// reserve), so the units available to it are current + prev.
func (s *ReservationService) decrement(ctx context.Context, name string, want, prev, current int) error {
	for attempt := 0; ; attempt++ {
		limit := current + prev
		if want > limit {
			return &ShortfallError{Name: name, Requested: want, Available: limit}
		}

		ok, err := s.catalog.CompareAndSetCount(ctx, name, current, limit-want)
		if err != nil {
			return fmt.Errorf("set count of %s: %w", name, err)
		}
		if ok {
			return nil
		}

		s.monitor.ObserveCASConflict()
		if attempt+1 >= maxCASAttempts {
			return ErrCASConflict
		}
		counts, err := s.catalog.ReadCounts(ctx, []string{name})
		if err != nil {
			return fmt.Errorf("re-read count of %s: %w", name, err)
		}
		if !counts[0].Exists {
			return &UnknownMedicineError{Name: name}
		}
		current = counts[0].Count
	}
}

// fail compensates the committed steps and returns cause. If compensation
// itself fails, the compensation fault is returned instead so the handler
// surfaces an exception; the store is left with stale decrements that /clean
// can reset.
func (s *ReservationService) fail(ctx context.Context, applied []appliedStep, cause error) error {
	if err := s.compensate(ctx, applied); err != nil {
		return fmt.Errorf("compensation failed (original cause: %v): %w", cause, err)
	}
	return cause
}

// compensate reverses the committed steps in reverse order. Each reverse
// write re-reads the current count and retries its CAS, for at most
// maxCompensationAttempts attempts; the first step that does not land stops
// compensation and its error is returned.
func (s *ReservationService) compensate(ctx context.Context, applied []appliedStep) error {
	if len(applied) == 0 {
		return nil
	}
	for i := len(applied) - 1; i >= 0; i-- {
		step := applied[i]
		if err := s.revert(ctx, step); err != nil {
			s.monitor.ObserveCompensation("failed")
			log.Error().Err(err).
				Str("medicine", step.name).
				Int("debit", step.debit).
				Msg("compensation failed, inventory left decremented")
			return err
		}
	}
	s.monitor.ObserveCompensation("reverted")
	return nil
}

func (s *ReservationService) revert(ctx context.Context, step appliedStep) error {
	for attempt := 0; attempt < maxCompensationAttempts; attempt++ {
		counts, err := s.catalog.ReadCounts(ctx, []string{step.name})
		if err != nil {
			return err
		}
		if !counts[0].Exists {
			return fmt.Errorf("medicine %s disappeared during compensation", step.name)
		}
		current := counts[0].Count
		ok, err := s.catalog.CompareAndSetCount(ctx, step.name, current, current+step.debit)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("compensation for %s did not land after %d attempts", step.name, maxCompensationAttempts)
}

func buildLines(reservationID gocql.UUID, accountName string, entries []model.MedicineEntry) ([]model.ReservationLine, error) {
	lines := make([]model.ReservationLine, len(entries))
	for i, entry := range entries {
		lineID, err := gocql.RandomUUID()
		if err != nil {
			return nil, fmt.Errorf("allocate line id: %w", err)
		}
		lines[i] = model.ReservationLine{
			ReservationID: reservationID,
			LineID:        lineID,
			AccountName:   accountName,
			Medicine:      entry.Name,
			Count:         entry.Count,
		}
	}
	return lines, nil
}
