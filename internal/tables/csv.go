package tables

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ParseCSV reads a header-defined CSV document into rows. The first
// record names the columns. Ragged data lines are tolerated: missing
// trailing cells leave their columns absent from the row, extra cells
// are ignored.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ParseCSV: reading header: %w", err)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ParseCSV: reading record: %w", err)
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i >= len(record) {
				break
			}
			row[col] = record[i]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// DirSource loads tables from CSV files in a local directory. Table
// "partner" maps to <dir>/partner.csv.
type DirSource struct {
	dir string
}

// NewDirSource creates a source backed by a directory of CSV files.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// ReadTable implements the Source interface.
func (s *DirSource) ReadTable(ctx context.Context, name string) ([]Row, error) {
	path := filepath.Join(s.dir, name+".csv")

	f, err := os.Open(path)
	if err != nil {
		return nil, &DataSourceError{Table: name, Err: err}
	}
	defer f.Close()

	rows, err := ParseCSV(f)
	if err != nil {
		return nil, &DataSourceError{Table: name, Err: err}
	}
	return rows, nil
}

// Ensure DirSource implements Source.
var _ Source = (*DirSource)(nil)
