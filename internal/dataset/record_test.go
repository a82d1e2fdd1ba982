package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestRecordFloat(t *testing.T) {
	rec := PollingUnitRecord{
		APC:            7,
		TotalVotes:     42,
		CompositeScore: fptr(1.5),
	}

	v, ok := rec.Float(ColAPC)
	require.True(t, ok)
	require.NotNil(t, v)
	assert.InDelta(t, 7, *v, 1e-9)

	v, ok = rec.Float(ColCompositeScore)
	require.True(t, ok)
	assert.InDelta(t, 1.5, *v, 1e-9)

	// Optional column without a value: known, but nil.
	v, ok = rec.Float(ColAccreditedRatio)
	require.True(t, ok)
	assert.Nil(t, v)

	_, ok = rec.Float(ColPUName)
	assert.False(t, ok, "string columns are not numeric")

	_, ok = rec.Float("Nope")
	assert.False(t, ok)
}

func TestRecordText(t *testing.T) {
	rec := PollingUnitRecord{PUCode: "PU001", LGA: "Jos North"}

	s, ok := rec.Text(ColPUCode)
	require.True(t, ok)
	assert.Equal(t, "PU001", s)

	s, ok = rec.Text(ColLGA)
	require.True(t, ok)
	assert.Equal(t, "Jos North", s)

	_, ok = rec.Text(ColAPC)
	assert.False(t, ok)
}

func TestRecordPartyVotes(t *testing.T) {
	rec := PollingUnitRecord{APC: 1, PDP: 2, LP: 3, NNPP: 4}

	for i, party := range Parties {
		v, ok := rec.PartyVotes(party)
		require.True(t, ok)
		assert.Equal(t, int64(i+1), v)
	}

	_, ok := rec.PartyVotes("APGA")
	assert.False(t, ok)
}

func TestRecordHasCoordinates(t *testing.T) {
	assert.False(t, (&PollingUnitRecord{}).HasCoordinates())
	assert.False(t, (&PollingUnitRecord{Latitude: fptr(1)}).HasCoordinates())
	assert.True(t, (&PollingUnitRecord{Latitude: fptr(1), Longitude: fptr(2)}).HasCoordinates())
}

func TestTableFloatColumn(t *testing.T) {
	table := &Table{Rows: []PollingUnitRecord{
		{CompositeScore: fptr(1.0)},
		{},
		{CompositeScore: fptr(3.0)},
	}}

	values, err := table.FloatColumn(ColCompositeScore)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.InDelta(t, 1.0, *values[0], 1e-9)
	assert.Nil(t, values[1])
	assert.InDelta(t, 3.0, *values[2], 1e-9)

	_, err = table.FloatColumn("Nope")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestTableLen(t *testing.T) {
	var nilTable *Table
	assert.Zero(t, nilTable.Len())
	assert.Equal(t, 2, (&Table{Rows: make([]PollingUnitRecord, 2)}).Len())
}
