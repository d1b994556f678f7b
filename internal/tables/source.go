package tables

import (
	"context"
	"fmt"
)

// Row is one record from a tabular dataset, keyed by column name.
// All values are kept as raw strings; typed interpretation happens
// at the consumer's parsing boundary.
type Row map[string]string

// Source reads a named table into rows. Implementations exist for a
// local CSV directory, a GCS bucket and a BigQuery dataset.
type Source interface {
	ReadTable(ctx context.Context, name string) ([]Row, error)
}

// DataSourceError is returned when a required table cannot be located
// or parsed. It is never recovered internally; callers see it as a
// hard failure.
type DataSourceError struct {
	Table string
	Err   error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source: table %q: %v", e.Table, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}
