package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/link-shortener/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere in the column.
// Wildcards typed by the user match literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

type linkDB struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	URL         string    `db:"url"`
	AccessCount int64     `db:"count_access"`
	CreatedAt   time.Time `db:"created_at"`
}

func (l *linkDB) toEntity() *entity.ShortLink {
	return &entity.ShortLink{
		ID:          l.ID,
		Name:        l.Name,
		URL:         l.URL,
		AccessCount: l.AccessCount,
		CreatedAt:   l.CreatedAt,
	}
}

type exportRowDB struct {
	Name        string    `db:"name"`
	URL         string    `db:"url"`
	CreatedAt   time.Time `db:"created_at"`
	AccessCount int64     `db:"count_access"`
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Save(ctx context.Context, name, url string) (*entity.ShortLink, error) {
	const op = "adapter.repository.postgres.LinkRepository.Save"
	const query = `INSERT INTO link_shorteners(id, name, url) VALUES ($1, $2, $3)
		RETURNING id, name, url, count_access, created_at`

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to generate id: %w", op, err)
	}

	var link linkDB

	if err := r.db.GetContext(ctx, &link, query, id, name, url); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNameExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into link_shorteners table: %w", op, err)
	}

	return link.toEntity(), nil
}

func (r *LinkRepository) List(ctx context.Context, params entity.ListParams) (*entity.LinkPage, error) {
	const op = "adapter.repository.postgres.LinkRepository.List"
	const countQuery = `SELECT COUNT(*) FROM link_shorteners WHERE name ILIKE $1`
	const query = `SELECT id, name, url, count_access, created_at FROM link_shorteners
		WHERE name ILIKE $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`

	pattern := containsPattern(params.Search)

	var total int64

	if err := r.db.GetContext(ctx, &total, countQuery, pattern); err != nil {
		return nil, fmt.Errorf("%s: failed to count link_shorteners rows: %w", op, err)
	}

	var rows []linkDB

	if err := r.db.SelectContext(ctx, &rows, query, pattern, params.PageSize, params.Offset()); err != nil {
		return nil, fmt.Errorf("%s: failed to select from link_shorteners table: %w", op, err)
	}

	links := make([]entity.ShortLink, 0, len(rows))
	for i := range rows {
		links = append(links, *rows[i].toEntity())
	}

	return &entity.LinkPage{
		Links:    links,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

func (r *LinkRepository) RetrieveAndUpdateStats(ctx context.Context, name string) (*entity.ShortLink, error) {
	const op = "adapter.repository.postgres.LinkRepository.RetrieveAndUpdateStats"
	const query = `UPDATE link_shorteners SET count_access = count_access + 1 WHERE name = $1
		RETURNING id, name, url, count_access, created_at`

	var link linkDB

	if err := r.db.GetContext(ctx, &link, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get and update link_shorteners table row: %w", op, err)
	}

	return link.toEntity(), nil
}

func (r *LinkRepository) Update(ctx context.Context, id uuid.UUID, name, url string) (*entity.ShortLink, error) {
	const op = "adapter.repository.postgres.LinkRepository.Update"
	const query = `UPDATE link_shorteners SET name = $1, url = $2 WHERE id = $3
		RETURNING id, name, url, count_access, created_at`

	var link linkDB

	if err := r.db.GetContext(ctx, &link, query, name, url, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNameExists)
		}

		return nil, fmt.Errorf("%s: failed to update link_shorteners table row: %w", op, err)
	}

	return link.toEntity(), nil
}

func (r *LinkRepository) Remove(ctx context.Context, id uuid.UUID) error {
	const op = "adapter.repository.postgres.LinkRepository.Remove"
	const query = `DELETE FROM link_shorteners WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: failed to delete from link_shorteners table: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	return nil
}

// StreamExportRows reads the links whose name contains search through a
// server-side cursor, handing batches of at most batchSize rows to fn in
// creation order, newest first. An error returned by fn stops the stream.
func (r *LinkRepository) StreamExportRows(
	ctx context.Context,
	search string,
	batchSize int,
	fn func(batch []entity.ExportRow) error,
) error {
	const op = "adapter.repository.postgres.LinkRepository.StreamExportRows"
	const declareQuery = `DECLARE export_cursor NO SCROLL CURSOR FOR
		SELECT name, url, created_at, count_access FROM link_shorteners
		WHERE name ILIKE $1 ORDER BY created_at DESC, id DESC`

	if batchSize < 1 {
		return fmt.Errorf("%s: invalid batch size %d", op, batchSize)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	if err := streamCursor(ctx, tx, declareQuery, containsPattern(search), batchSize, fn); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return nil
}

func streamCursor(
	ctx context.Context,
	tx *sqlx.Tx,
	declareQuery, pattern string,
	batchSize int,
	fn func(batch []entity.ExportRow) error,
) error {
	if _, err := tx.ExecContext(ctx, declareQuery, pattern); err != nil {
		return fmt.Errorf("failed to declare cursor: %w", err)
	}

	fetchQuery := fmt.Sprintf(`FETCH FORWARD %d FROM export_cursor`, batchSize)

	for {
		var rows []exportRowDB

		if err := tx.SelectContext(ctx, &rows, fetchQuery); err != nil {
			return fmt.Errorf("failed to fetch from cursor: %w", err)
		}

		if len(rows) == 0 {
			return nil
		}

		batch := make([]entity.ExportRow, len(rows))
		for i, row := range rows {
			batch[i] = entity.ExportRow{
				Name:        row.Name,
				URL:         row.URL,
				CreatedAt:   row.CreatedAt,
				AccessCount: row.AccessCount,
			}
		}

		if err := fn(batch); err != nil {
			return err
		}

		if len(rows) < batchSize {
			return nil
		}
	}
}
