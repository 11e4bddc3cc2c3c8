package service

import (
	"context"
	"sync"

	"github.com/gocql/gocql"

	"github.com/AndrewChmutov/big-medicine/internal/model"
)

// fakeStore is an in-memory store with the same contract as the real one:
// per-row compare-and-set on catalog counts, plain row operations on
// reservation lines, no cross-row atomicity. It implements both repository
// interfaces so a single instance backs a whole service.
type fakeStore struct {
	mu     sync.Mutex
	counts map[string]int
	lines  []model.ReservationLine

	// casErr, when set, fails every conditional write.
	casErr error
	// insertErr, when set, fails every line insert.
	insertErr error
	// rejectCAS, when set, makes conditional writes on the named medicine
	// report not-applied without touching state.
	rejectCAS map[string]bool
}

func newFakeStore(counts map[string]int) *fakeStore {
	copied := make(map[string]int, len(counts))
	for name, count := range counts {
		copied[name] = count
	}
	return &fakeStore{counts: copied}
}

func (f *fakeStore) ReadCounts(_ context.Context, names []string) ([]model.CatalogCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make([]model.CatalogCount, len(names))
	for i, name := range names {
		count, ok := f.counts[name]
		counts[i] = model.CatalogCount{Name: name, Count: count, Exists: ok}
	}
	return counts, nil
}

func (f *fakeStore) CompareAndSetCount(_ context.Context, name string, expected, next int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.casErr != nil {
		return false, f.casErr
	}
	if f.rejectCAS[name] {
		return false, nil
	}
	current, ok := f.counts[name]
	if !ok || current != expected {
		return false, nil
	}
	f.counts[name] = next
	return true, nil
}

func (f *fakeStore) Medicine(_ context.Context, name string) (map[string]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count, ok := f.counts[name]
	if !ok {
		return nil, nil
	}
	return map[string]interface{}{"name": name, "count": count}, nil
}

func (f *fakeStore) InsertLines(_ context.Context, lines []model.ReservationLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.lines = append(f.lines, lines...)
	return nil
}

func (f *fakeStore) DeleteByReservationID(_ context.Context, id gocql.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.lines[:0]
	for _, line := range f.lines {
		if line.ReservationID != id {
			kept = append(kept, line)
		}
	}
	f.lines = kept
	return nil
}

func (f *fakeStore) SelectByReservationID(_ context.Context, id gocql.UUID) ([]model.ReservationLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var lines []model.ReservationLine
	for _, line := range f.lines {
		if line.ReservationID == id {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (f *fakeStore) SelectByAccountName(_ context.Context, name string) ([]model.ReservationLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var lines []model.ReservationLine
	for _, line := range f.lines {
		if line.AccountName == name {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (f *fakeStore) SelectAll(_ context.Context) ([]model.ReservationLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]model.ReservationLine, len(f.lines))
	copy(lines, f.lines)
	return lines, nil
}

// count returns the current catalog count of name.
func (f *fakeStore) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[name]
}

// reservedTotal returns the units of name held across all reservation lines.
func (f *fakeStore) reservedTotal(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, line := range f.lines {
		if line.Medicine == name {
			total += line.Count
		}
	}
	return total
}
