package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dharsanguruparan/dbzmanager/internal/model"
)

// UploadRepository stores design upload records.
type UploadRepository struct {
	pool *pgxpool.Pool
}

// NewUploadRepository constructs a repository.
func NewUploadRepository(pool *pgxpool.Pool) *UploadRepository {
	return &UploadRepository{pool: pool}
}

const uploadColumns = `id, design, front_depth, industry, file_number, file_url_1, file_url_2, created_at`

func scanUpload(row pgx.Row) (*model.Upload, error) {
	var u model.Upload
	if err := row.Scan(&u.ID, &u.Design, &u.FrontDepth, &u.Industry, &u.FileNumber, &u.FileURL1, &u.FileURL2, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUpload inserts u and fills in its id and creation time. A file number
// collision yields a DuplicateError on ConstraintFileNumber.
func (r *UploadRepository) CreateUpload(ctx context.Context, u *model.Upload) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO uploads (design, front_depth, industry, file_number, file_url_1, file_url_2)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, u.Design, u.FrontDepth, u.Industry, u.FileNumber, u.FileURL1, u.FileURL2).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return translate(err, "insert upload")
	}
	return nil
}

// ListUploads returns uploads matching every set field of f, ordered by id.
func (r *UploadRepository) ListUploads(ctx context.Context, f model.UploadFilter) ([]model.Upload, error) {
	var (
		query strings.Builder
		args  []any
	)
	query.WriteString("SELECT " + uploadColumns + " FROM uploads WHERE 1=1")
	for _, cond := range []struct {
		column, value string
	}{
		{"design", f.Design},
		{"front_depth", f.FrontDepth},
		{"industry", f.Industry},
	} {
		if cond.value == "" {
			continue
		}
		args = append(args, cond.value)
		fmt.Fprintf(&query, " AND %s = $%d", cond.column, len(args))
	}
	query.WriteString(" ORDER BY id")

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("select uploads: %w", err)
	}
	defer rows.Close()
	out := []model.Upload{}
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uploads: %w", err)
	}
	return out, nil
}

// GetUpload returns the upload with id or ErrNotFound.
func (r *UploadRepository) GetUpload(ctx context.Context, id int64) (*model.Upload, error) {
	u, err := scanUpload(r.pool.QueryRow(ctx, `SELECT `+uploadColumns+` FROM uploads WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select upload: %w", err)
	}
	return u, nil
}

// GetUploadByFileNumber returns the upload with the given file number or ErrNotFound.
func (r *UploadRepository) GetUploadByFileNumber(ctx context.Context, fileNumber string) (*model.Upload, error) {
	u, err := scanUpload(r.pool.QueryRow(ctx, `SELECT `+uploadColumns+` FROM uploads WHERE file_number = $1`, fileNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select upload: %w", err)
	}
	return u, nil
}

// UpdateUpload writes the mutable fields of u, keyed by its file number.
func (r *UploadRepository) UpdateUpload(ctx context.Context, u *model.Upload) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE uploads
		SET design = $1,
			front_depth = $2,
			industry = $3,
			file_url_1 = $4,
			file_url_2 = $5
		WHERE file_number = $6
	`, u.Design, u.FrontDepth, u.Industry, u.FileURL1, u.FileURL2, u.FileNumber)
	if err != nil {
		return fmt.Errorf("update upload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUpload removes the row with id or returns ErrNotFound.
func (r *UploadRepository) DeleteUpload(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM uploads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UploadSummary counts uploads per (design, front_depth), largest groups first.
func (r *UploadRepository) UploadSummary(ctx context.Context) ([]model.DesignDepthCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT design, front_depth, COUNT(*) AS upload_count
		FROM uploads
		GROUP BY design, front_depth
		ORDER BY upload_count DESC, design, front_depth
	`)
	if err != nil {
		return nil, fmt.Errorf("select upload summary: %w", err)
	}
	defer rows.Close()
	out := []model.DesignDepthCount{}
	for rows.Next() {
		var c model.DesignDepthCount
		if err := rows.Scan(&c.Design, &c.FrontDepth, &c.UploadCount); err != nil {
			return nil, fmt.Errorf("scan upload summary: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DesignCounts counts uploads per design, largest first, and returns the
// overall total alongside.
func (r *UploadRepository) DesignCounts(ctx context.Context) ([]model.DesignCount, int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT design, COUNT(*) AS upload_count
		FROM uploads
		GROUP BY design
		ORDER BY upload_count DESC, design
	`)
	if err != nil {
		return nil, 0, fmt.Errorf("select design counts: %w", err)
	}
	defer rows.Close()
	out := []model.DesignCount{}
	for rows.Next() {
		var c model.DesignCount
		if err := rows.Scan(&c.Design, &c.UploadCount); err != nil {
			return nil, 0, fmt.Errorf("scan design count: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate design counts: %w", err)
	}
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM uploads`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count uploads: %w", err)
	}
	return out, total, nil
}

// Industries returns the distinct industries, sorted.
func (r *UploadRepository) Industries(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT industry FROM uploads ORDER BY industry`)
	if err != nil {
		return nil, fmt.Errorf("select industries: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan industries: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
