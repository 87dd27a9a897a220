// Package export streams short links into CSV files stored in object storage.
//
// An export runs four stages concurrently: a database cursor producing
// batches, a stage flattening batches into rows, a CSV encoder and an upload
// reading the encoded bytes through an io.Pipe. Stages are joined by bounded
// channels and share one cancellation signal, so the failure of any stage
// stops the others and fails the export as a whole.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/vadimbarashkov/link-shortener/internal/entity"
	"github.com/vadimbarashkov/link-shortener/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchSize = 500
	defaultFolder    = "downloads"

	contentTypeCSV = "text/csv"

	// keyTimeFormat is ISO 8601 in UTC with millisecond precision.
	keyTimeFormat = "2006-01-02T15:04:05.000Z"
)

// ErrInvalidBatchSize is returned by New when the configured batch size is not positive.
var ErrInvalidBatchSize = errors.New("invalid export batch size")

type rowSource interface {
	StreamExportRows(ctx context.Context, search string, batchSize int, fn func(batch []entity.ExportRow) error) error
}

type uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type Option func(*Exporter)

func WithBatchSize(n int) Option {
	return func(e *Exporter) {
		e.batchSize = n
	}
}

func WithFolder(folder string) Option {
	return func(e *Exporter) {
		e.folder = folder
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		e.now = now
	}
}

type Exporter struct {
	source    rowSource
	uploader  uploader
	batchSize int
	folder    string
	now       func() time.Time
}

func New(source rowSource, uploader uploader, opts ...Option) (*Exporter, error) {
	const op = "export.New"

	e := &Exporter{
		source:    source,
		uploader:  uploader,
		batchSize: defaultBatchSize,
		folder:    defaultFolder,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.batchSize < 1 {
		return nil, fmt.Errorf("%s: %w: %d", op, ErrInvalidBatchSize, e.batchSize)
	}

	return e, nil
}

func (e *Exporter) objectKey() string {
	return path.Join(e.folder, e.now().UTC().Format(keyTimeFormat)+".csv")
}

// Export writes every link whose name contains search (all links when search
// is empty) to a new CSV object and returns the object's public URL.
func (e *Exporter) Export(ctx context.Context, search string) (string, error) {
	const op = "export.Exporter.Export"

	start := time.Now()

	url, rows, err := e.run(ctx, search)
	if err != nil {
		metrics.RecordExport(metrics.OutcomeError, rows, time.Since(start))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	metrics.RecordExport(metrics.OutcomeSuccess, rows, time.Since(start))

	return url, nil
}

func (e *Exporter) run(ctx context.Context, search string) (string, int64, error) {
	g, ctx := errgroup.WithContext(ctx)

	batches := make(chan []entity.ExportRow, 1)
	rows := make(chan entity.ExportRow, e.batchSize)
	pr, pw := io.Pipe()

	g.Go(func() error {
		err := e.source.StreamExportRows(ctx, search, e.batchSize, func(batch []entity.ExportRow) error {
			return send(ctx, batches, batch)
		})
		if err != nil {
			return fmt.Errorf("failed to read links: %w", err)
		}

		close(batches)
		return nil
	})

	g.Go(func() error {
		return flatten(ctx, batches, rows)
	})

	var written int64

	g.Go(func() error {
		n, err := encodeCSV(ctx, rows, pw)
		written = n
		pw.CloseWithError(err)
		return err
	})

	var url string

	g.Go(func() error {
		u, err := e.uploader.Upload(ctx, e.objectKey(), pr, contentTypeCSV)
		pr.CloseWithError(err)
		if err != nil {
			return fmt.Errorf("failed to upload export: %w", err)
		}

		url = u
		return nil
	})

	if err := g.Wait(); err != nil {
		return "", written, err
	}

	return url, written, nil
}
