package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"go-job-scraper/internal/models"
)

var fixedTime = time.Date(2024, 3, 9, 14, 5, 7, 42*int(time.Millisecond), time.UTC)

func newTestExporter(t *testing.T) (*Exporter, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "out")
	e := New(dir)
	e.now = func() time.Time { return fixedTime }
	return e, dir
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestExport_WritesRows(t *testing.T) {
	e, dir := newTestExporter(t)
	records := []models.Record{
		{Source: models.SourceLinkedInJobs, Title: "Data Analyst", Company: "Acme", Location: "Austin, TX", URL: "https://www.linkedin.com/jobs/view/1", Snippet: "Data Analyst Acme"},
		{Source: models.SourceIndeed, Title: "Junior Analyst"},
	}

	path, err := e.Export(records, models.Query{Designation: "Data Analyst", City: "Austin"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "job_listings_Data_Analyst_Austin_20240309_140507_042.xlsx"), path)

	rows := readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, []string{"1", "LinkedIn Jobs", "Data Analyst", "Acme", "Austin, TX", "https://www.linkedin.com/jobs/view/1", "Data Analyst Acme"}, rows[1])
	// trailing empty cells are dropped by GetRows
	assert.Equal(t, []string{"2", "Indeed", "Junior Analyst"}, rows[2])
}

func TestExport_HeaderOnlyWhenEmpty(t *testing.T) {
	e, _ := newTestExporter(t)

	path, err := e.Export(nil, models.Query{Designation: "Nothing", City: "Nowhere"})
	require.NoError(t, err)

	rows := readRows(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, Columns, rows[0])
}

func TestExport_NeverOverwrites(t *testing.T) {
	e, _ := newTestExporter(t)
	q := models.Query{Designation: "Data Analyst", City: "Austin"}

	first, err := e.Export([]models.Record{{Title: "first"}}, q)
	require.NoError(t, err)
	second, err := e.Export([]models.Record{{Title: "second"}}, q)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(second, "_042_1.xlsx"), second)
	assert.Equal(t, "first", readRows(t, first)[1][2])
	assert.Equal(t, "second", readRows(t, second)[1][2])
}

func TestExport_UnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := New(file).Export(nil, models.Query{Designation: "a", City: "b"})
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	got := FileName(models.Query{Designation: "Ingeniería de Datos", City: "São Paulo"}, fixedTime)
	assert.Equal(t, "job_listings_Ingenieria_de_Datos_Sao_Paulo_20240309_140507_042.xlsx", got)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Data Analyst", "Data_Analyst"},
		{"  C++ / Go  ", "C_Go"},
		{"Ñandú", "Nandu"},
		{"東京", "empty"},
		{"", "empty"},
		{strings.Repeat("a", 80), strings.Repeat("a", maxNamePart)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize(tt.in))
		})
	}
}
