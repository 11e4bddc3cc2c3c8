package model

import "github.com/gocql/gocql"

// Medicine is a catalog row. Everything except Count is bulk-loaded by the
// dataset tooling and read-only for the coordinator.
type Medicine struct {
	Name             string   `json:"name"`
	Count            int      `json:"count"`
	Substitutes      []string `json:"substitutes"`
	SideEffects      []string `json:"side_effects"`
	Uses             []string `json:"uses"`
	ChemicalClass    string   `json:"chemical_class"`
	HabitForming     string   `json:"habit_forming"`
	TherapeuticClass string   `json:"therapeutic_class"`
	ActionClass      string   `json:"action_class"`
}

// CatalogCount is one result of a catalog count read. Exists is false when the
// medicine has no catalog row.
type CatalogCount struct {
	Name   string
	Count  int
	Exists bool
}

// ReservationLine is one row of the reservation table. A reservation is the
// set of lines sharing a ReservationID; lines have no meaning outside it.
type ReservationLine struct {
	ReservationID gocql.UUID
	LineID        gocql.UUID
	AccountName   string
	Medicine      string
	Count         int
}
