package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testHeader = "PU-Code,PU-Name,LGA,Ward,Latitude,Longitude," +
	"APC,PDP,LP,NNPP,Total_Votes,Registered_Voters,Accredited_Voters," +
	"HDBSCAN_Cluster,Accredited_Ratio,Global_Composite_Score," +
	"APC_z_score,PDP_z_score,LP_z_score,NNPP_z_score,color"

func testCSV(rows ...string) string {
	return testHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

func TestParseCSV_Valid(t *testing.T) {
	data := testCSV(
		"PU001,Unit One,Jos North,Ward A,9.91,8.89,10,20,30,40,100,200,150,1,0.75,2.5,0.1,-0.2,1.5,0,red",
		"PU002,Unit Two,Jos South,Ward B,,,5,6,7,8,26,50,30,-1,0.6,1.1,0.3,0.4,-0.5,0.2,blue",
	)

	table, err := ParseCSV(strings.NewReader(data), DefaultSchema())
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	first := table.Rows[0]
	assert.Equal(t, "PU001", first.PUCode)
	assert.Equal(t, "Unit One", first.PUName)
	assert.Equal(t, "Jos North", first.LGA)
	assert.Equal(t, "Ward A", first.Ward)
	assert.Equal(t, int64(10), first.APC)
	assert.Equal(t, int64(20), first.PDP)
	assert.Equal(t, int64(100), first.TotalVotes)
	assert.Equal(t, int64(200), first.RegisteredVoters)
	assert.Equal(t, int64(150), first.AccreditedVoters)
	assert.Equal(t, int64(1), first.Cluster)
	require.NotNil(t, first.CompositeScore)
	assert.InDelta(t, 2.5, *first.CompositeScore, 1e-9)
	require.NotNil(t, first.Latitude)
	assert.InDelta(t, 9.91, *first.Latitude, 1e-9)
	assert.Equal(t, "red", first.Color)

	second := table.Rows[1]
	assert.Nil(t, second.Latitude)
	assert.Nil(t, second.Longitude)
	assert.Equal(t, int64(-1), second.Cluster)
	assert.Zero(t, table.SkippedValues)
}

func TestParseCSV_MissingTokens(t *testing.T) {
	data := testCSV(
		"PU001,Unit One,Jos North,Ward A,NA,n/a,10,20,30,40,100,200,150,1,NaN,none,null,,0.1,0.2,red",
	)

	table, err := ParseCSV(strings.NewReader(data), DefaultSchema())
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	r := table.Rows[0]
	assert.Nil(t, r.Latitude)
	assert.Nil(t, r.Longitude)
	assert.Nil(t, r.AccreditedRatio)
	assert.Nil(t, r.CompositeScore)
	assert.Nil(t, r.APCZScore)
	assert.Nil(t, r.PDPZScore)
	require.NotNil(t, r.LPZScore)
	assert.Zero(t, table.SkippedValues, "missing tokens are not data quality skips")
}

func TestParseCSV_UnparseableOptionalSkipped(t *testing.T) {
	data := testCSV(
		"PU001,Unit One,Jos North,Ward A,garbage,8.89,10,20,30,40,100,200,150,1,oops,2.5,0.1,-0.2,1.5,0,red",
	)

	table, err := ParseCSV(strings.NewReader(data), DefaultSchema())
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	r := table.Rows[0]
	assert.Nil(t, r.Latitude)
	assert.Nil(t, r.AccreditedRatio)
	assert.Equal(t, 2, table.SkippedValues)
}

func TestParseCSV_BadRequiredInt(t *testing.T) {
	data := testCSV(
		"PU001,Unit One,Jos North,Ward A,9.91,8.89,abc,20,30,40,100,200,150,1,0.75,2.5,0.1,-0.2,1.5,0,red",
	)

	_, err := ParseCSV(strings.NewReader(data), DefaultSchema())

	var sv *SchemaViolation
	require.ErrorAs(t, err, &sv)
	require.Len(t, sv.BadTypes, 1)
	assert.Equal(t, ColAPC, sv.BadTypes[0].Column)
	assert.Equal(t, 1, sv.BadTypes[0].Row)
	assert.Equal(t, "abc", sv.BadTypes[0].Value)
	assert.Contains(t, sv.Error(), ColAPC)
}

func TestParseCSV_IntegralFloatCounts(t *testing.T) {
	data := testCSV(
		"PU001,Unit One,Jos North,Ward A,9.91,8.89,12.0,20,30,40,100,200,150,1,0.75,2.5,0.1,-0.2,1.5,0,red",
	)

	table, err := ParseCSV(strings.NewReader(data), DefaultSchema())
	require.NoError(t, err)
	assert.Equal(t, int64(12), table.Rows[0].APC)
}

func TestParseCSV_FractionalRequiredIntRejected(t *testing.T) {
	data := testCSV(
		"PU001,Unit One,Jos North,Ward A,9.91,8.89,12.5,20,30,40,100,200,150,1,0.75,2.5,0.1,-0.2,1.5,0,red",
	)

	_, err := ParseCSV(strings.NewReader(data), DefaultSchema())

	var sv *SchemaViolation
	require.ErrorAs(t, err, &sv)
	require.Len(t, sv.BadTypes, 1)
	assert.Equal(t, "12.5", sv.BadTypes[0].Value)
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(testHeader+"\n"), DefaultSchema())
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestParseCSV_MissingRequiredColumns(t *testing.T) {
	data := "PU-Name,LGA\nUnit One,Jos North\n"

	_, err := ParseCSV(strings.NewReader(data), DefaultSchema())

	var sv *SchemaViolation
	require.ErrorAs(t, err, &sv)
	assert.Contains(t, sv.Missing, ColPUCode)
	assert.Contains(t, sv.Missing, ColTotalVotes)
}

func TestParseCSV_BOM(t *testing.T) {
	data := "\xef\xbb\xbf" + testCSV(
		"PU001,Unit One,Jos North,Ward A,9.91,8.89,10,20,30,40,100,200,150,1,0.75,2.5,0.1,-0.2,1.5,0,red",
	)

	table, err := ParseCSV(strings.NewReader(data), DefaultSchema())
	require.NoError(t, err)
	assert.Equal(t, "PU001", table.Rows[0].PUCode)
}

func TestParseCSV_ViolationReportCapped(t *testing.T) {
	rows := make([]string, 0, maxTypeViolations+5)
	for i := 0; i < maxTypeViolations+5; i++ {
		rows = append(rows,
			"PU001,Unit One,Jos North,Ward A,9.91,8.89,bad,20,30,40,100,200,150,1,0.75,2.5,0.1,-0.2,1.5,0,red")
	}

	_, err := ParseCSV(strings.NewReader(testCSV(rows...)), DefaultSchema())

	var sv *SchemaViolation
	require.ErrorAs(t, err, &sv)
	assert.Len(t, sv.BadTypes, maxTypeViolations)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(fullHeader()))
	for i, name := range fullHeader() {
		header[i] = name
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{
		"PU001", "Unit One", "Jos North", "Ward A", 9.91, 8.89,
		10, 20, 30, 40, 100, 200, 150, 1, 0.75, 2.5, 0.1, -0.2, 1.5, 0, "red",
	}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := ParseXLSX(bytes.NewReader(buf.Bytes()), DefaultSchema())
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	r := table.Rows[0]
	assert.Equal(t, "PU001", r.PUCode)
	assert.Equal(t, int64(100), r.TotalVotes)
	require.NotNil(t, r.CompositeScore)
	assert.InDelta(t, 2.5, *r.CompositeScore, 1e-9)
}

func TestParseXLSX_HeaderOnly(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(fullHeader()))
	for i, name := range fullHeader() {
		header[i] = name
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = ParseXLSX(bytes.NewReader(buf.Bytes()), DefaultSchema())
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestIsMissingToken(t *testing.T) {
	for _, token := range []string{"", "na", "NA", "n/a", "NaN", "none", "NULL"} {
		assert.True(t, isMissingToken(token), "token %q", token)
	}
	for _, token := range []string{"0", "0.0", "-1", "x"} {
		assert.False(t, isMissingToken(token), "token %q", token)
	}
}
