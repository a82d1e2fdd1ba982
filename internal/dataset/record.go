package dataset

import (
	"time"
)

// PollingUnitRecord is one row of the scored election results table.
// Optional numeric fields are nil when the source cell was blank;
// consumers must treat nil as excluded, never as zero.
type PollingUnitRecord struct {
	PUCode string `json:"pu_code"`
	PUName string `json:"pu_name"`
	LGA    string `json:"lga"`
	Ward   string `json:"ward,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	APC  int64 `json:"apc"`
	PDP  int64 `json:"pdp"`
	LP   int64 `json:"lp"`
	NNPP int64 `json:"nnpp"`

	TotalVotes       int64 `json:"total_votes"`
	RegisteredVoters int64 `json:"registered_voters"`
	AccreditedVoters int64 `json:"accredited_voters"`

	Cluster         int64    `json:"cluster"`
	AccreditedRatio *float64 `json:"accredited_ratio,omitempty"`
	CompositeScore  *float64 `json:"composite_score,omitempty"`

	APCZScore  *float64 `json:"apc_z_score,omitempty"`
	PDPZScore  *float64 `json:"pdp_z_score,omitempty"`
	LPZScore   *float64 `json:"lp_z_score,omitempty"`
	NNPPZScore *float64 `json:"nnpp_z_score,omitempty"`

	Color string `json:"color,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (r *PollingUnitRecord) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Float returns the record's value for a numeric column by name.
// Integer columns are always present and convert to float; optional
// float columns return (nil, true) when the cell was blank. The second
// result is false for unknown or non-numeric column names.
func (r *PollingUnitRecord) Float(name string) (*float64, bool) {
	f := func(v float64) *float64 { return &v }
	switch name {
	case ColAPC:
		return f(float64(r.APC)), true
	case ColPDP:
		return f(float64(r.PDP)), true
	case ColLP:
		return f(float64(r.LP)), true
	case ColNNPP:
		return f(float64(r.NNPP)), true
	case ColTotalVotes:
		return f(float64(r.TotalVotes)), true
	case ColRegisteredVoters:
		return f(float64(r.RegisteredVoters)), true
	case ColAccreditedVoters:
		return f(float64(r.AccreditedVoters)), true
	case ColCluster:
		return f(float64(r.Cluster)), true
	case ColLatitude:
		return r.Latitude, true
	case ColLongitude:
		return r.Longitude, true
	case ColAccreditedRatio:
		return r.AccreditedRatio, true
	case ColCompositeScore:
		return r.CompositeScore, true
	case ColAPCZScore:
		return r.APCZScore, true
	case ColPDPZScore:
		return r.PDPZScore, true
	case ColLPZScore:
		return r.LPZScore, true
	case ColNNPPZScore:
		return r.NNPPZScore, true
	default:
		return nil, false
	}
}

// Text returns the record's value for a string column by name.
func (r *PollingUnitRecord) Text(name string) (string, bool) {
	switch name {
	case ColPUCode:
		return r.PUCode, true
	case ColPUName:
		return r.PUName, true
	case ColLGA:
		return r.LGA, true
	case ColWard:
		return r.Ward, true
	case ColColor:
		return r.Color, true
	default:
		return "", false
	}
}

// PartyVotes returns the tally for a tracked party column.
func (r *PollingUnitRecord) PartyVotes(party string) (int64, bool) {
	switch party {
	case ColAPC:
		return r.APC, true
	case ColPDP:
		return r.PDP, true
	case ColLP:
		return r.LP, true
	case ColNNPP:
		return r.NNPP, true
	default:
		return 0, false
	}
}

// Table is the loaded, schema-validated dataset. It is immutable for
// the lifetime of a rendering pass; every derived view reads it without
// coordination.
type Table struct {
	Rows     []PollingUnitRecord
	Schema   Schema
	Source   string
	LoadedAt time.Time

	// SkippedValues counts optional cells that held unparseable text and
	// were treated as missing during the load.
	SkippedValues int
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// FloatColumn returns the named numeric column in row order, nil entries
// marking missing values. Unknown names return ErrUnknownColumn.
func (t *Table) FloatColumn(name string) ([]*float64, error) {
	if t.Len() == 0 {
		return nil, nil
	}
	if _, ok := t.Rows[0].Float(name); !ok {
		return nil, UnknownColumnError(name)
	}

	values := make([]*float64, len(t.Rows))
	for i := range t.Rows {
		v, _ := t.Rows[i].Float(name)
		values[i] = v
	}
	return values, nil
}

// HasFloatColumn reports whether name resolves to a numeric column.
func (t *Table) HasFloatColumn(name string) bool {
	var probe PollingUnitRecord
	_, ok := probe.Float(name)
	return ok
}

// HasStringColumn reports whether name resolves to a string column.
func (t *Table) HasStringColumn(name string) bool {
	var probe PollingUnitRecord
	_, ok := probe.Text(name)
	return ok
}
