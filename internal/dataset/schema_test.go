package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullHeader() []string {
	return []string{
		ColPUCode, ColPUName, ColLGA, ColWard, ColLatitude, ColLongitude,
		ColAPC, ColPDP, ColLP, ColNNPP,
		ColTotalVotes, ColRegisteredVoters, ColAccreditedVoters, ColCluster,
		ColAccreditedRatio, ColCompositeScore,
		ColAPCZScore, ColPDPZScore, ColLPZScore, ColNNPPZScore, ColColor,
	}
}

func TestSchemaValidate(t *testing.T) {
	schema := DefaultSchema()

	tests := []struct {
		name        string
		header      []string
		wantMissing []string
	}{
		{
			name:   "complete header",
			header: fullHeader(),
		},
		{
			name: "optional columns absent",
			header: []string{
				ColPUCode, ColPUName, ColLGA,
				ColAPC, ColPDP, ColLP, ColNNPP,
				ColTotalVotes, ColRegisteredVoters, ColAccreditedVoters, ColCluster,
			},
		},
		{
			name: "multiple required columns missing reported together",
			header: []string{
				ColPUName, ColLGA,
				ColPDP, ColLP, ColNNPP,
				ColTotalVotes, ColRegisteredVoters, ColAccreditedVoters, ColCluster,
			},
			wantMissing: []string{ColPUCode, ColAPC},
		},
		{
			name:        "empty header",
			header:      []string{},
			wantMissing: requiredNames(schema),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, err := schema.Validate(tt.header)

			if len(tt.wantMissing) > 0 {
				var sv *SchemaViolation
				require.ErrorAs(t, err, &sv)
				assert.ElementsMatch(t, tt.wantMissing, sv.Missing)
				assert.Nil(t, index)
				return
			}

			require.NoError(t, err)
			for i, name := range tt.header {
				assert.Equal(t, i, index[name], "column %s", name)
			}
		})
	}
}

func TestSchemaValidate_ColumnOrderIrrelevant(t *testing.T) {
	header := fullHeader()
	// Reverse the header; positions change, validation must not.
	for i, j := 0, len(header)-1; i < j; i, j = i+1, j-1 {
		header[i], header[j] = header[j], header[i]
	}

	index, err := DefaultSchema().Validate(header)
	require.NoError(t, err)
	assert.Equal(t, len(header)-1, index[ColPUCode])
}

func TestSchemaValidate_BOMHeader(t *testing.T) {
	header := fullHeader()
	header[0] = "\uFEFF" + header[0]

	index, err := DefaultSchema().Validate(header)
	require.NoError(t, err)
	assert.Equal(t, 0, index[ColPUCode])
}

func TestSchemaColumn(t *testing.T) {
	schema := DefaultSchema()

	col, ok := schema.Column(ColWard)
	require.True(t, ok)
	assert.True(t, col.Optional)
	assert.Equal(t, KindString, col.Kind)

	col, ok = schema.Column(ColAPC)
	require.True(t, ok)
	assert.False(t, col.Optional)
	assert.Equal(t, KindInt, col.Kind)

	_, ok = schema.Column("Nope")
	assert.False(t, ok)
}
