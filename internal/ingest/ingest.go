// Package ingest turns uploaded spreadsheets into a person -> interests mapping.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hurou927/tag-communities/internal/graph"
)

var (
	ErrUnsupportedFormat       = errors.New("unsupported file format, use CSV or Excel (.xlsx)")
	ErrNameColumnNotFound      = errors.New("name column not found, expected a header such as 'Nome', 'Pessoa' or 'Name'")
	ErrInterestsColumnNotFound = errors.New("interests column not found, expected a header such as 'Interesses', 'Categorias' or 'Interests'")
	ErrNoPeople                = errors.New("no valid person found in file")
)

// Header keywords, matched as case-insensitive substrings.
var (
	nameKeywords      = []string{"nome", "pessoa", "name"}
	interestsKeywords = []string{"interesse", "categoria", "interest"}
)

// Parse reads a CSV or XLSX file and returns each person's interest tags.
// The format is picked from the file name extension.
func Parse(fileName string, r io.Reader) (graph.Interests, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		rows, err = readCSV(r)
	case ".xlsx":
		rows, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, fileName)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fileName, err)
	}

	return FromRows(rows)
}

// FromRows builds the mapping from a header row followed by data rows.
func FromRows(rows [][]string) (graph.Interests, error) {
	if len(rows) == 0 {
		return nil, ErrNameColumnNotFound
	}

	header := rows[0]
	nameCol := findColumn(header, nameKeywords)
	if nameCol < 0 {
		return nil, ErrNameColumnNotFound
	}
	interestsCol := findColumn(header, interestsKeywords)
	if interestsCol < 0 {
		return nil, ErrInterestsColumnNotFound
	}

	interests := make(graph.Interests)
	for _, row := range rows[1:] {
		name := strings.TrimSpace(cell(row, nameCol))
		if name == "" {
			continue
		}
		interests[name] = SplitTags(cell(row, interestsCol))
	}

	if len(interests) == 0 {
		return nil, ErrNoPeople
	}
	return interests, nil
}

// SplitTags splits a cell on commas, or on semicolons when the cell has no
// comma. Parts are trimmed and empty parts dropped.
func SplitTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	tags := []string{}
	if raw == "" {
		return tags
	}

	var parts []string
	switch {
	case strings.Contains(raw, ","):
		parts = strings.Split(raw, ",")
	case strings.Contains(raw, ";"):
		parts = strings.Split(raw, ";")
	default:
		parts = []string{raw}
	}

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// findColumn returns the index of the first header containing one of the
// keywords, or -1.
func findColumn(header []string, keywords []string) int {
	for i, h := range header {
		h = strings.ToLower(h)
		for _, k := range keywords {
			if strings.Contains(h, k) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// readXLSX returns the rows of the first sheet.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
