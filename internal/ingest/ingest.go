// Package ingest converts uploaded spreadsheets into analyzer records.
//
// Column headers are matched case-insensitively against an ordered alias
// list per field. For each row the first non-empty matching column wins, and
// missing values fall back to fixed defaults so every row yields a record.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/blackwell-systems/spendscope/internal/analyzer"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than
	// .csv, .xlsx, .xls and .json.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoRows is returned when a file has no non-blank data rows.
	ErrNoRows = errors.New("no data rows")
)

// Record field names used as alias targets.
const (
	FieldVendor   = "vendor"
	FieldCategory = "category"
	FieldAmount   = "amount"
	FieldDate     = "date"
	FieldPONumber = "po_number"
)

// Defaults applied when a field is missing or empty.
const (
	DefaultVendor   = "Unknown"
	DefaultCategory = analyzer.CategoryUncategorized
	DefaultPONumber = "N/A"
)

// Fields lists the record fields in output order.
func Fields() []string {
	return []string{FieldVendor, FieldCategory, FieldAmount, FieldDate, FieldPONumber}
}

// DefaultAliases returns the built-in header aliases per field, in priority
// order.
func DefaultAliases() map[string][]string {
	return map[string][]string{
		FieldVendor:   {"vendor", "supplier"},
		FieldCategory: {"category", "type"},
		FieldAmount:   {"amount", "cost"},
		FieldDate:     {"date"},
		FieldPONumber: {"po_number", "po number", "po"},
	}
}

// IsField reports whether name is a record field.
func IsField(name string) bool {
	for _, f := range Fields() {
		if f == name {
			return true
		}
	}
	return false
}

// Options controls parsing.
type Options struct {
	// Now supplies the default date. Defaults to time.Now.
	Now func() time.Time

	// ExtraAliases maps additional headers onto fields. They are tried after
	// the built-in aliases. Entries naming an unknown field are ignored.
	ExtraAliases map[string]string
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// aliasTable returns the merged alias lists, lower-cased.
func (o Options) aliasTable() map[string][]string {
	table := DefaultAliases()
	for header, field := range o.ExtraAliases {
		field = strings.ToLower(strings.TrimSpace(field))
		if !IsField(field) {
			continue
		}
		table[field] = append(table[field], strings.ToLower(strings.TrimSpace(header)))
	}
	return table
}

// Format identifies a supported file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// DetectFormat maps a file name onto a Format by extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xls":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
}

// Supported reports whether filename has a supported extension.
func Supported(filename string) bool {
	_, err := DetectFormat(filename)
	return err == nil
}

// Parse reads r as the format implied by filename.
func Parse(r io.Reader, filename string, opts Options) ([]analyzer.Record, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	var header []string
	var rows [][]string
	switch format {
	case FormatCSV:
		header, rows, err = readCSV(r)
	case FormatXLSX:
		header, rows, err = readXLSX(r)
	case FormatJSON:
		header, rows, err = readJSON(r)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	records := Normalize(header, rows, opts)
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoRows)
	}
	return records, nil
}

// columnIndex resolves, per field, the column positions of its aliases in
// priority order.
func columnIndex(header []string, aliases map[string][]string) map[string][]int {
	pos := make(map[string][]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		pos[key] = append(pos[key], i)
	}

	index := make(map[string][]int, len(aliases))
	for field, names := range aliases {
		for _, name := range names {
			index[field] = append(index[field], pos[name]...)
		}
	}
	return index
}

// Normalize maps tabular rows onto records. Blank rows are skipped.
func Normalize(header []string, rows [][]string, opts Options) []analyzer.Record {
	index := columnIndex(header, opts.aliasTable())
	today := opts.now().Format("2006-01-02")

	records := make([]analyzer.Record, 0, len(rows))
	for _, row := range rows {
		if blankRow(row) {
			continue
		}

		value := func(field string) string {
			for _, i := range index[field] {
				if i < len(row) {
					if v := strings.TrimSpace(row[i]); v != "" {
						return v
					}
				}
			}
			return ""
		}

		records = append(records, analyzer.Record{
			Vendor:   orDefault(value(FieldVendor), DefaultVendor),
			Category: orDefault(value(FieldCategory), DefaultCategory),
			Amount:   ParseAmount(value(FieldAmount)),
			Date:     orDefault(value(FieldDate), today),
			PONumber: orDefault(value(FieldPONumber), DefaultPONumber),
		})
	}
	return records
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// amountCleaner strips currency symbols, thousands separators and spaces.
var amountCleaner = strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", ",", "", " ", "", " ", "")

// ParseAmount parses a monetary cell. Negative values, including accounting
// negatives such as "(120)", and unparseable input yield 0.
func ParseAmount(s string) float64 {
	s = amountCleaner.Replace(strings.TrimSpace(s))
	if s == "" || (strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")) {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
