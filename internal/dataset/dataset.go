// Package dataset prepares the public medicine dataset and bulk-loads it
// into the catalog table.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"

	"github.com/AndrewChmutov/big-medicine/internal/config"
	"github.com/AndrewChmutov/big-medicine/pkg/database"
)

const uploadBatchSize = 4

// Prepare normalizes the raw dataset: renames sideEffect* columns to
// side_effect*, lowercases and underscores the remaining headers, truncates
// to take rows and adds a count column drawn uniformly from [minValue,
// maxValue).
func Prepare(source, target string, minValue, maxValue, take int) error {
	if maxValue <= minValue {
		return fmt.Errorf("max must be greater than min, got [%d, %d)", minValue, maxValue)
	}

	records, err := readCSV(source)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("dataset %s has no header row", source)
	}

	header, rows := records[0], records[1:]
	if take < len(rows) {
		rows = rows[:take]
	}

	for i, column := range header {
		header[i] = renameColumn(column)
	}
	header = append(header, "count")
	for i := range rows {
		rows[i] = append(rows[i], strconv.Itoa(minValue+rand.Intn(maxValue-minValue)))
	}

	out := make([][]string, 0, len(rows)+1)
	out = append(out, header)
	out = append(out, rows...)
	return writeCSV(target, out)
}

func renameColumn(column string) string {
	const sourceLabel = "sideEffect"
	if strings.HasPrefix(column, sourceLabel) {
		return "side_effect" + strings.TrimPrefix(column, sourceLabel)
	}
	return strings.ReplaceAll(strings.ToLower(column), " ", "_")
}

// Upload bootstraps the keyspace and bulk-loads a prepared dataset into the
// medicine table in small unlogged batches.
func Upload(ctx context.Context, session *gocql.Session, cfg config.CassandraConfig, path string) error {
	log.Info().Str("keyspace", cfg.Keyspace).Int("repl_factor", cfg.ReplFactor).
		Msg("creating keyspace and syncing tables")
	if err := database.Bootstrap(ctx, session, cfg.Keyspace, cfg.ReplFactor); err != nil {
		return err
	}

	records, err := readCSV(path)
	if err != nil {
		return err
	}
	if len(records) < 2 {
		return fmt.Errorf("dataset %s has no data rows", path)
	}
	header, rows := records[0], records[1:]

	insert := fmt.Sprintf(`INSERT INTO %s.medicine `+
		`(name, count, substitutes, side_effects, uses, chemical_class, `+
		`habit_forming, therapeutic_class, action_class) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cfg.Keyspace)

	nBatches := (len(rows) + uploadBatchSize - 1) / uploadBatchSize
	log.Info().Int("batches", nBatches).Msg("uploading dataset")

	const logEvery = 10
	for i := 0; i < nBatches; i++ {
		end := (i + 1) * uploadBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		if (i+1)%logEvery == 0 {
			log.Info().Msgf("uploading %d/%d batch", i+1, nBatches)
		}

		batch := session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
		for _, row := range rows[i*uploadBatchSize : end] {
			medicine, err := rowToMedicine(header, row)
			if err != nil {
				return err
			}
			batch.Query(insert,
				medicine.Name, medicine.Count, medicine.Substitutes, medicine.SideEffects,
				medicine.Uses, medicine.ChemicalClass, medicine.HabitForming,
				medicine.TherapeuticClass, medicine.ActionClass)
		}
		if err := session.ExecuteBatch(batch); err != nil {
			return fmt.Errorf("upload batch %d/%d: %w", i+1, nBatches, err)
		}
	}
	return nil
}

// uploadRow is the catalog shape assembled from one dataset row.
type uploadRow struct {
	Name             string
	Count            int
	Substitutes      []string
	SideEffects      []string
	Uses             []string
	ChemicalClass    string
	HabitForming     string
	TherapeuticClass string
	ActionClass      string
}

func rowToMedicine(header, row []string) (uploadRow, error) {
	cell := func(column string) string {
		for i, name := range header {
			if name == column && i < len(row) {
				return row[i]
			}
		}
		return ""
	}

	name := cell("name")
	if name == "" {
		return uploadRow{}, fmt.Errorf("dataset row without a name column")
	}
	count, err := strconv.Atoi(cell("count"))
	if err != nil {
		return uploadRow{}, fmt.Errorf("dataset row %s: bad count: %w", name, err)
	}

	return uploadRow{
		Name:             name,
		Count:            count,
		Substitutes:      collectList(header, row, "substitute"),
		SideEffects:      collectList(header, row, "side_effect"),
		Uses:             collectList(header, row, "use"),
		ChemicalClass:    cell("chemical_class"),
		HabitForming:     cell("habit_forming"),
		TherapeuticClass: cell("therapeutic_class"),
		ActionClass:      cell("action_class"),
	}, nil
}

// collectList gathers the non-empty values of the numbered columns sharing
// prefix (substitute0, substitute1, ...), in column order.
func collectList(header, row []string, prefix string) []string {
	var values []string
	for i, column := range header {
		rest := strings.TrimPrefix(column, prefix)
		if rest == column {
			continue
		}
		if _, err := strconv.Atoi(rest); err != nil {
			continue
		}
		if i < len(row) && row[i] != "" {
			values = append(values, row[i])
		}
	}
	return values
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return records, nil
}

func writeCSV(path string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return nil
}
