package database

import "fmt"

// Statements bundles the parameterized CQL used by the coordinator, qualified
// with the configured keyspace. The driver prepares each statement on first
// use and reuses the prepared form afterwards. The bundle is built once at
// startup and read-only from then on.
type Statements struct {
	SelectCount       string
	CASCount          string
	SelectMedicine    string
	InsertLine        string
	DeleteReservation string
	SelectReservation string
	SelectByAccount   string
	SelectAllLines    string
}

// NewStatements builds the statement bundle for keyspace.
func NewStatements(keyspace string) *Statements {
	q := func(format string) string {
		return fmt.Sprintf(format, keyspace)
	}
	return &Statements{
		SelectCount:    q(`SELECT count FROM %s.medicine WHERE name = ?`),
		CASCount:       q(`UPDATE %s.medicine SET count = ? WHERE name = ? IF count = ?`),
		SelectMedicine: q(`SELECT * FROM %s.medicine WHERE name = ?`),
		InsertLine: q(`INSERT INTO %s.reservation ` +
			`(reservation_id, id, account_name, medicine, count) VALUES (?, ?, ?, ?, ?)`),
		DeleteReservation: q(`DELETE FROM %s.reservation WHERE reservation_id = ?`),
		SelectReservation: q(`SELECT reservation_id, id, account_name, medicine, count ` +
			`FROM %s.reservation WHERE reservation_id = ?`),
		SelectByAccount: q(`SELECT reservation_id, id, account_name, medicine, count ` +
			`FROM %s.reservation WHERE account_name = ? ALLOW FILTERING`),
		SelectAllLines: q(`SELECT reservation_id, id, account_name, medicine, count ` +
			`FROM %s.reservation`),
	}
}
