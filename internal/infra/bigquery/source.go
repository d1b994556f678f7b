// Package bigquery provides a table source that reads the flat
// datasets from a BigQuery dataset instead of CSV files. Every column
// value is rendered back to its string form so the engine sees the
// same row shape regardless of source.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/tables"
	"google.golang.org/api/iterator"
)

// Source reads tables from a BigQuery dataset. It holds a shared
// BigQuery client to avoid creating a new connection per table.
type Source struct {
	client  *bigquery.Client
	dataset string
}

// NewSource creates a BigQuery-backed source for the given project
// and dataset.
func NewSource(ctx context.Context, projectID, dataset string) (*Source, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewSource: creating client: %w", err)
	}
	return &Source{
		client:  client,
		dataset: dataset,
	}, nil
}

// Close closes the BigQuery client connection.
func (s *Source) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// ReadTable implements the tables.Source interface.
func (s *Source) ReadTable(ctx context.Context, name string) ([]tables.Row, error) {
	q := s.client.Query(fmt.Sprintf("SELECT * FROM `%s.%s`", s.dataset, name))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, &tables.DataSourceError{Table: name, Err: err}
	}

	var rows []tables.Row
	for {
		var values map[string]bigquery.Value
		err := it.Next(&values)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, &tables.DataSourceError{Table: name, Err: err}
		}

		row := make(tables.Row, len(values))
		for col, v := range values {
			if v == nil {
				continue
			}
			row[col] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Ensure Source implements tables.Source.
var _ tables.Source = (*Source)(nil)
