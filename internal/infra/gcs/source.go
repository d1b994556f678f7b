// Package gcs provides a table source backed by CSV objects in a
// Google Cloud Storage bucket.
package gcs

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/tables"
)

// Source reads tables from CSV objects under a bucket prefix. Table
// "partner" maps to gs://<bucket>/<prefix>partner.csv.
type Source struct {
	bucket string
	prefix string
}

// NewSource creates a GCS-backed source. The prefix may be empty;
// a non-empty prefix should end with "/".
func NewSource(bucket, prefix string) *Source {
	return &Source{
		bucket: bucket,
		prefix: prefix,
	}
}

// ReadTable implements the tables.Source interface.
func (s *Source) ReadTable(ctx context.Context, name string) ([]tables.Row, error) {
	object := s.prefix + name + ".csv"

	data, err := downloadObject(ctx, s.bucket, object)
	if err != nil {
		return nil, &tables.DataSourceError{Table: name, Err: err}
	}

	rows, err := tables.ParseCSV(bytes.NewReader(data))
	if err != nil {
		return nil, &tables.DataSourceError{Table: name, Err: err}
	}
	return rows, nil
}

func downloadObject(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	bkt := client.Bucket(bucketName)
	obj := bkt.Object(objectName)

	r, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}

	return data, nil
}

// Ensure Source implements tables.Source.
var _ tables.Source = (*Source)(nil)
