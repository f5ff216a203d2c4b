// Package values loads substitution values from files and flags.
package values

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/bobiverse/docxfill"
)

// ErrUnsupportedSheet is returned for job sheets that are neither CSV nor XLSX.
var ErrUnsupportedSheet = errors.New("unsupported sheet format")

// LoadFile reads a YAML (or, for *.json, JSON) mapping of placeholder name
// to value. Names may be written bare ("Company Name") or bracketed
// ("[Company Name]"). YAML scalars are taken exactly as written, null
// becomes an empty value. Nested JSON values are skipped.
func LoadFile(path string) (docxfill.Values, error) {
	buf, err := os.ReadFile(path) // #nosec G304 - values path given by user
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if !json.Valid(buf) {
			return nil, fmt.Errorf("parse values %s: invalid JSON", path)
		}
		values := docxfill.AnyToValues(buf)
		if values == nil {
			return nil, fmt.Errorf("parse values %s: expected a JSON object", path)
		}
		return values, nil
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(buf, &doc); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}

	values := docxfill.Values{}
	for key, node := range doc {
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("parse values %s: %q must be a scalar (line %d)", path, key, node.Line)
		}
		value := node.Value
		if node.Tag == "!!null" {
			value = ""
		}
		values.Set(key, value)
	}
	return values, nil
}

// ParsePairs turns "Company Name=Acme" pairs into values. Only the first
// "=" separates name and value.
func ParsePairs(pairs []string) (docxfill.Values, error) {
	values := docxfill.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid value %q, expected name=value", pair)
		}
		values.Set(key, value)
	}
	return values, nil
}

// LoadSheet reads jobs from a CSV or XLSX file. The first row names the
// placeholders, every following non-blank row is one job. For XLSX an empty
// sheet name selects the first sheet.
func LoadSheet(path, sheet string) ([]docxfill.Values, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path, sheet)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSheet, path)
	}
	if err != nil {
		return nil, err
	}

	return rowsToValues(rows)
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path) // #nosec G304 - sheet path given by user
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	// blank lines are dropped by the reader; pad them back so row numbers
	// in errors match the line a record starts on
	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		for len(rows) < line-1 {
			rows = append(rows, nil)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open XLSX file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("XLSX file %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func rowsToValues(rows [][]string) ([]docxfill.Values, error) {
	h := 0
	for h < len(rows) && isBlank(rows[h]) {
		h++
	}
	if h == len(rows) {
		return nil, fmt.Errorf("sheet is empty")
	}

	header := rows[h]
	// Excel "CSV UTF-8" starts with a byte order mark
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var jobs []docxfill.Values
	for i := h + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		if len(row) > len(header) {
			// sheet rows count from 1
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(row), len(header))
		}

		job := docxfill.Values{}
		for col, name := range header {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			var value string
			if col < len(row) {
				value = row[col]
			}
			job.Set(name, value)
		}
		jobs = append(jobs, job)
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("sheet must have at least one header row and one data row")
	}
	return jobs, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
