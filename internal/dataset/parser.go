package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// maxTypeViolations caps how many bad cells a SchemaViolation reports.
const maxTypeViolations = 10

// ParseCSV parses the dataset from CSV. The header may carry a UTF-8
// BOM and columns may appear in any order; the schema is validated
// before any row is converted.
func ParseCSV(r io.Reader, schema Schema) (*Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	// Strip the UTF-8 BOM if present
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	return buildTable(records, schema)
}

// ParseXLSX parses the dataset from an Excel workbook. The first sheet
// whose header satisfies the schema is used.
func ParseXLSX(r io.Reader, schema Schema) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var lastErr error
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		table, err := buildTable(rows, schema)
		if err == nil {
			return table, nil
		}
		lastErr = err
		// A sheet with the right header but bad rows is the real error,
		// not a sheet to skip.
		var sv *SchemaViolation
		if errors.As(err, &sv) && len(sv.Missing) == 0 {
			return nil, err
		}
		if errors.Is(err, ErrEmptyDataset) {
			return nil, err
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("workbook has no sheets with data")
}

// buildTable validates the header and converts every data row.
func buildTable(records [][]string, schema Schema) (*Table, error) {
	if len(records) == 0 {
		return nil, &SchemaViolation{Missing: requiredNames(schema)}
	}

	index, err := schema.Validate(records[0])
	if err != nil {
		return nil, err
	}

	if len(records) == 1 {
		return nil, ErrEmptyDataset
	}

	table := &Table{
		Rows:     make([]PollingUnitRecord, 0, len(records)-1),
		Schema:   schema,
		LoadedAt: time.Now(),
	}

	var violations []TypeViolation
	for i, raw := range records[1:] {
		rec, skipped, bad := parseRow(raw, index, i+1)
		table.SkippedValues += skipped
		if len(bad) > 0 {
			if len(violations) < maxTypeViolations {
				violations = append(violations, bad...)
			}
			continue
		}
		table.Rows = append(table.Rows, rec)
	}

	if len(violations) > 0 {
		if len(violations) > maxTypeViolations {
			violations = violations[:maxTypeViolations]
		}
		return nil, &SchemaViolation{BadTypes: violations}
	}

	if len(table.Rows) == 0 {
		return nil, ErrEmptyDataset
	}

	return table, nil
}

// parseRow converts one data row. Required numeric cells that fail to
// parse are schema violations; optional cells degrade to missing and are
// counted so the loader can report data quality.
func parseRow(raw []string, index map[string]int, rowNum int) (rec PollingUnitRecord, skipped int, bad []TypeViolation) {
	cell := func(name string) (string, bool) {
		i, ok := index[name]
		if !ok || i >= len(raw) {
			return "", false
		}
		return strings.TrimSpace(raw[i]), true
	}

	requireInt := func(name string) int64 {
		s, ok := cell(name)
		if !ok || s == "" {
			bad = append(bad, TypeViolation{Column: name, Row: rowNum, Value: s})
			return 0
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			// Some exports write integral counts as "123.0"
			if f, ferr := strconv.ParseFloat(s, 64); ferr == nil && f == float64(int64(f)) {
				return int64(f)
			}
			bad = append(bad, TypeViolation{Column: name, Row: rowNum, Value: s})
			return 0
		}
		return v
	}

	optionalFloat := func(name string) *float64 {
		s, ok := cell(name)
		if !ok || isMissingToken(s) {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			skipped++
			return nil
		}
		return &v
	}

	rec.PUCode, _ = cell(ColPUCode)
	rec.PUName, _ = cell(ColPUName)
	rec.LGA, _ = cell(ColLGA)
	rec.Ward, _ = cell(ColWard)
	rec.Color, _ = cell(ColColor)

	rec.Latitude = optionalFloat(ColLatitude)
	rec.Longitude = optionalFloat(ColLongitude)

	rec.APC = requireInt(ColAPC)
	rec.PDP = requireInt(ColPDP)
	rec.LP = requireInt(ColLP)
	rec.NNPP = requireInt(ColNNPP)
	rec.TotalVotes = requireInt(ColTotalVotes)
	rec.RegisteredVoters = requireInt(ColRegisteredVoters)
	rec.AccreditedVoters = requireInt(ColAccreditedVoters)
	rec.Cluster = requireInt(ColCluster)

	rec.AccreditedRatio = optionalFloat(ColAccreditedRatio)
	rec.CompositeScore = optionalFloat(ColCompositeScore)
	rec.APCZScore = optionalFloat(ColAPCZScore)
	rec.PDPZScore = optionalFloat(ColPDPZScore)
	rec.LPZScore = optionalFloat(ColLPZScore)
	rec.NNPPZScore = optionalFloat(ColNNPPZScore)

	return rec, skipped, bad
}

// isMissingToken reports whether a cell spells out a missing value.
func isMissingToken(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "n/a", "nan", "none", "null":
		return true
	default:
		return false
	}
}

func requiredNames(schema Schema) []string {
	var names []string
	for _, c := range schema.Columns {
		if !c.Optional {
			names = append(names, c.Name)
		}
	}
	return names
}
