package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/vadimbarashkov/link-shortener/internal/entity"
)

const csvDelimiter = ';'

var csvHeader = []string{"Name", "URL", "Created At", "Count Access"}

// send hands v to out unless ctx is done first.
func send[T any](ctx context.Context, out chan<- T, v T) error {
	select {
	case out <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// flatten forwards every row of every batch read from in. out is closed only
// when in was closed, so downstream stages never mistake a failure for the end
// of the stream.
func flatten(ctx context.Context, in <-chan []entity.ExportRow, out chan<- entity.ExportRow) error {
	for {
		select {
		case batch, ok := <-in:
			if !ok {
				close(out)
				return nil
			}

			for _, row := range batch {
				if err := send(ctx, out, row); err != nil {
					return err
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func csvRecord(row entity.ExportRow) []string {
	return []string{
		row.Name,
		row.URL,
		row.CreatedAt.UTC().Format(time.RFC3339),
		strconv.FormatInt(row.AccessCount, 10),
	}
}

// encodeCSV writes the header and then one record per row until in is closed.
// It returns the number of data records written.
func encodeCSV(ctx context.Context, in <-chan entity.ExportRow, w io.Writer) (int64, error) {
	cw := csv.NewWriter(w)
	cw.Comma = csvDelimiter

	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}

	var n int64

	for {
		select {
		case row, ok := <-in:
			if !ok {
				cw.Flush()
				if err := cw.Error(); err != nil {
					return n, fmt.Errorf("failed to flush csv: %w", err)
				}

				return n, nil
			}

			if err := cw.Write(csvRecord(row)); err != nil {
				return n, fmt.Errorf("failed to write csv record: %w", err)
			}
			n++
		case <-ctx.Done():
			return n, ctx.Err()
		}
	}
}
