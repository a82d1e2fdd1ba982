package dataset

import (
	"strings"
)

// Column names as they appear in the published dataset header.
const (
	ColPUCode           = "PU-Code"
	ColPUName           = "PU-Name"
	ColLGA              = "LGA"
	ColWard             = "Ward"
	ColLatitude         = "Latitude"
	ColLongitude        = "Longitude"
	ColAPC              = "APC"
	ColPDP              = "PDP"
	ColLP               = "LP"
	ColNNPP             = "NNPP"
	ColTotalVotes       = "Total_Votes"
	ColRegisteredVoters = "Registered_Voters"
	ColAccreditedVoters = "Accredited_Voters"
	ColCluster          = "HDBSCAN_Cluster"
	ColAccreditedRatio  = "Accredited_Ratio"
	ColCompositeScore   = "Global_Composite_Score"
	ColAPCZScore        = "APC_z_score"
	ColPDPZScore        = "PDP_z_score"
	ColLPZScore         = "LP_z_score"
	ColNNPPZScore       = "NNPP_z_score"
	ColColor            = "color"
)

// Parties lists the tracked parties in display order.
var Parties = []string{ColAPC, ColPDP, ColLP, ColNNPP}

// ZScoreColumns lists the per-party z-score columns in display order.
var ZScoreColumns = []string{ColAPCZScore, ColPDPZScore, ColLPZScore, ColNNPPZScore}

// Kind is the expected value type of a column.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Column describes one expected column of the input table.
// Optional columns may be absent from the header or blank per row;
// required columns must be present with parseable values.
type Column struct {
	Name     string
	Kind     Kind
	Optional bool
}

// Schema is the ordered descriptor of the expected column set, checked
// once against the parsed header before any row is converted.
type Schema struct {
	Columns []Column
}

// DefaultSchema returns the schema of the scored election results table.
func DefaultSchema() Schema {
	return Schema{Columns: []Column{
		{Name: ColPUCode, Kind: KindString},
		{Name: ColPUName, Kind: KindString},
		{Name: ColLGA, Kind: KindString},
		{Name: ColWard, Kind: KindString, Optional: true},
		{Name: ColLatitude, Kind: KindFloat, Optional: true},
		{Name: ColLongitude, Kind: KindFloat, Optional: true},
		{Name: ColAPC, Kind: KindInt},
		{Name: ColPDP, Kind: KindInt},
		{Name: ColLP, Kind: KindInt},
		{Name: ColNNPP, Kind: KindInt},
		{Name: ColTotalVotes, Kind: KindInt},
		{Name: ColRegisteredVoters, Kind: KindInt},
		{Name: ColAccreditedVoters, Kind: KindInt},
		{Name: ColCluster, Kind: KindInt},
		{Name: ColAccreditedRatio, Kind: KindFloat, Optional: true},
		{Name: ColCompositeScore, Kind: KindFloat, Optional: true},
		{Name: ColAPCZScore, Kind: KindFloat, Optional: true},
		{Name: ColPDPZScore, Kind: KindFloat, Optional: true},
		{Name: ColLPZScore, Kind: KindFloat, Optional: true},
		{Name: ColNNPPZScore, Kind: KindFloat, Optional: true},
		{Name: ColColor, Kind: KindString, Optional: true},
	}}
}

// Column returns the descriptor for the named column.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Validate checks a parsed header against the schema and returns the
// column-name to index mapping. Missing required columns produce a
// *SchemaViolation naming every absent column at once.
func (s Schema) Validate(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, raw := range header {
		index[normalizeHeaderCell(raw)] = i
	}

	var missing []string
	for _, col := range s.Columns {
		if _, ok := index[col.Name]; !ok && !col.Optional {
			missing = append(missing, col.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaViolation{Missing: missing}
	}

	return index, nil
}

// normalizeHeaderCell strips the UTF-8 BOM and surrounding whitespace
// that spreadsheet exports tend to leave on the first header cell.
func normalizeHeaderCell(cell string) string {
	cell = strings.TrimSpace(cell)
	cell = strings.TrimPrefix(cell, "\uFEFF")
	cell = strings.TrimLeft(cell, "​‌‍⁠\uFEFF")
	return strings.TrimSpace(cell)
}
