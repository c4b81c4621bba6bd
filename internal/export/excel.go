package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-job-scraper/internal/models"
)

const (
	SheetName = "Jobs"

	filePrefix     = "job_listings"
	maxNamePart    = 50
	maxNameRetries = 1000
)

// Columns is the fixed header row; every record fills every column.
var Columns = []string{"No.", "Source", "Title", "Company", "Location", "URL", "Snippet"}

var colWidths = []float64{6, 16, 40, 28, 24, 60, 80}

type Exporter struct {
	dir string
	now func() time.Time
}

func New(dir string) *Exporter {
	if dir == "" {
		dir = "."
	}
	return &Exporter{dir: dir, now: time.Now}
}

// Export writes records to a new workbook and returns its path. Zero records
// still produce a header-only file. Existing files are never overwritten.
func (e *Exporter) Export(records []models.Record, q models.Query) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	f, err := build(records)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️ Failed to close workbook")
		}
	}()

	base := FileName(q, e.now())
	path, out, err := createUnique(e.dir, base)
	if err != nil {
		return "", err
	}

	if _, err := f.WriteTo(out); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write workbook: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close workbook file: %w", err)
	}

	log.Info().Str("path", path).Int("rows", len(records)).Msg("💾 Saved spreadsheet")
	return path, nil
}

func build(records []models.Record) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := lo.Map(Columns, func(c string, _ int) interface{} { return c })
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
		_ = f.SetCellStyle(SheetName, "A1", last, style)
	}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(SheetName, col, col, w)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		row := []interface{}{i + 1, string(r.Source), r.Title, r.Company, r.Location, r.URL, r.Snippet}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return f, nil
}

// createUnique opens base in dir exclusively, adding _1, _2, ... before the
// extension while the name is taken.
func createUnique(dir, base string) (string, *os.File, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 0; i < maxNameRetries; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		path := filepath.Join(dir, name)
		out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return path, out, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", nil, fmt.Errorf("create %s: %w", path, err)
		}
	}
	return "", nil, fmt.Errorf("no free file name for %s after %d attempts", base, maxNameRetries)
}

// FileName builds job_listings_<designation>_<city>_<timestamp>.xlsx.
func FileName(q models.Query, t time.Time) string {
	stamp := fmt.Sprintf("%s_%03d", t.Format("20060102_150405"), t.Nanosecond()/int(time.Millisecond))
	return fmt.Sprintf("%s_%s_%s_%s.xlsx", filePrefix, sanitize(q.Designation), sanitize(q.City), stamp)
}

// sanitize folds diacritics and keeps only ASCII letters and digits, joining
// everything else into single underscores.
func sanitize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range folded {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	out := b.String()
	if len(out) > maxNamePart {
		out = strings.TrimRight(out[:maxNamePart], "_")
	}
	if out == "" {
		return "empty"
	}
	return out
}
