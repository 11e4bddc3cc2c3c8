package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewChmutov/big-medicine/internal/model"
)

func TestUniqueNames(t *testing.T) {
	v := New()

	ok := model.MedicineReservations{
		AccountName: "alice",
		Entries: []model.MedicineEntry{
			{Name: "a", Count: 1},
			{Name: "b", Count: 2},
		},
	}
	require.NoError(t, v.Struct(ok))

	duplicated := model.MedicineReservations{
		AccountName: "alice",
		Entries: []model.MedicineEntry{
			{Name: "a", Count: 1},
			{Name: "a", Count: 2},
		},
	}
	assert.Error(t, v.Struct(duplicated))
}

func TestNotBlank(t *testing.T) {
	v := New()

	blankAccount := model.MedicineReservations{
		AccountName: "   ",
		Entries:     []model.MedicineEntry{{Name: "a", Count: 1}},
	}
	assert.Error(t, v.Struct(blankAccount))

	blankMedicine := model.MedicineReservations{
		AccountName: "alice",
		Entries:     []model.MedicineEntry{{Name: " ", Count: 1}},
	}
	assert.Error(t, v.Struct(blankMedicine))
}

func TestEntryCounts(t *testing.T) {
	v := New()

	zero := model.MedicineReservations{
		AccountName: "alice",
		Entries:     []model.MedicineEntry{{Name: "a", Count: 0}},
	}
	assert.Error(t, v.Struct(zero))

	negative := model.UpdateReservation{
		ID:      "some-id",
		Entries: []model.MedicineEntry{{Name: "a", Count: -1}},
	}
	assert.Error(t, v.Struct(negative))
}

func TestEmptyEntries(t *testing.T) {
	v := New()

	empty := model.MedicineReservations{AccountName: "alice"}
	assert.Error(t, v.Struct(empty))
}
