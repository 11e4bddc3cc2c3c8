package repository

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"

	"github.com/AndrewChmutov/big-medicine/internal/model"
	"github.com/AndrewChmutov/big-medicine/pkg/database"
)

// ReservationRepository provides row-level access to reservation lines.
type ReservationRepository struct {
	session *gocql.Session
	stmts   *database.Statements
}

// NewReservationRepository creates a ReservationRepository over the given
// session and statement bundle.
func NewReservationRepository(session *gocql.Session, stmts *database.Statements) *ReservationRepository {
	return &ReservationRepository{session: session, stmts: stmts}
}

// InsertLines writes all lines of one reservation in a single unlogged batch.
func (r *ReservationRepository) InsertLines(ctx context.Context, lines []model.ReservationLine) error {
	batch := r.session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
	for _, line := range lines {
		batch.Query(r.stmts.InsertLine,
			line.ReservationID, line.LineID, line.AccountName, line.Medicine, line.Count)
	}
	if err := r.session.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("insert reservation lines: %w", err)
	}
	return nil
}

// DeleteByReservationID removes every line of the reservation.
func (r *ReservationRepository) DeleteByReservationID(ctx context.Context, id gocql.UUID) error {
	if err := r.session.Query(r.stmts.DeleteReservation, id).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("delete reservation %s: %w", id, err)
	}
	return nil
}

// SelectByReservationID returns all lines of one reservation in store order.
// An unknown id yields an empty slice.
func (r *ReservationRepository) SelectByReservationID(ctx context.Context, id gocql.UUID) ([]model.ReservationLine, error) {
	iter := r.session.Query(r.stmts.SelectReservation, id).WithContext(ctx).Iter()
	return scanLines(iter, fmt.Sprintf("select reservation %s", id))
}

// SelectByAccountName returns all lines owned by the account.
func (r *ReservationRepository) SelectByAccountName(ctx context.Context, name string) ([]model.ReservationLine, error) {
	iter := r.session.Query(r.stmts.SelectByAccount, name).WithContext(ctx).Iter()
	return scanLines(iter, fmt.Sprintf("select reservations of %s", name))
}

// SelectAll returns every reservation line in the keyspace.
func (r *ReservationRepository) SelectAll(ctx context.Context) ([]model.ReservationLine, error) {
	iter := r.session.Query(r.stmts.SelectAllLines).WithContext(ctx).Iter()
	return scanLines(iter, "select all reservations")
}

func scanLines(iter *gocql.Iter, op string) ([]model.ReservationLine, error) {
	var lines []model.ReservationLine
	var line model.ReservationLine
	for iter.Scan(&line.ReservationID, &line.LineID, &line.AccountName, &line.Medicine, &line.Count) {
		lines = append(lines, line)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lines, nil
}
