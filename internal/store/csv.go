package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
)

// CSVStore reads populations from CSV files. If path is a directory, each
// dataset is the file <dataset>.csv inside it; otherwise the one file serves
// every dataset.
type CSVStore struct {
	path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) LoadProducts(ctx context.Context, dataset string) ([]electre.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.path
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, dataset+".csv")
	}
	return LoadCSV(path)
}

func (s *CSVStore) Close() error { return nil }

// LoadCSV reads products from a CSV file with a header row.
func LoadCSV(path string) ([]electre.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("csv: open %s: %w", path, ErrDatasetNotFound)
		}
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	products, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("csv: %s: %w", path, err)
	}
	return products, nil
}

// ParseCSV decodes products. Recognized headers are product_id,
// product_name, nutriscore_grade, eco_grade (or ecoscore_grade), organic,
// the criterion ids and their common open-data aliases. Empty cells leave
// the attribute absent; other headers are ignored.
func ParseCSV(r io.Reader) ([]electre.Product, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty (no header row)")
	}

	headers := records[0]
	for i := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(headers[i]))
	}

	products := make([]electre.Product, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i+2, len(record), len(headers))
		}
		p, err := parseRow(headers, record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if p.ID == "" {
			p.ID = strconv.Itoa(i + 1)
		}
		products = append(products, p)
	}
	return products, nil
}

func parseRow(headers, record []string) (electre.Product, error) {
	p := electre.Product{Vector: electre.ProductVector{}}
	for j, h := range headers {
		cell := strings.TrimSpace(record[j])
		if cell == "" {
			continue
		}
		switch h {
		case "product_id", "code":
			p.ID = cell
		case "product_name", "name":
			p.Name = cell
		case "nutriscore_grade":
			g, err := parseGrade(cell)
			if err != nil {
				return p, fmt.Errorf("%s: %w", h, err)
			}
			p.NutriScoreGrade = g
		case "eco_grade", "ecoscore_grade":
			g, err := parseGrade(cell)
			if err != nil {
				return p, fmt.Errorf("%s: %w", h, err)
			}
			p.Eco = g
		case "organic":
			b, err := parseBool(cell)
			if err != nil {
				return p, fmt.Errorf("%s: %w", h, err)
			}
			p.Organic = b
		default:
			id, scale, ok := criterionColumn(h)
			if !ok {
				continue
			}
			v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
			if err != nil {
				return p, fmt.Errorf("%s: invalid number %q", h, cell)
			}
			p.Vector[id] = v * scale
		}
	}
	return p, nil
}

// parseGrade treats the open-data placeholders for a missing grade as
// absent.
func parseGrade(s string) (electre.Grade, error) {
	switch strings.ToLower(s) {
	case "unknown", "not-applicable", "na", "n/a":
		return "", nil
	}
	return electre.ParseGrade(s)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y", "oui", "bio":
		return true, nil
	case "0", "false", "no", "n", "non":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
