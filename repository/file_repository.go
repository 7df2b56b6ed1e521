package repository

import (
	"context"
	"errors"

	"legalinsight-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FileRepository handles database operations for uploaded library files
type FileRepository struct {
	db *pgxpool.Pool
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{db: db}
}

// Create creates a new file record. The id is chosen by the caller so it can
// also name the stored object.
func (r *FileRepository) Create(ctx context.Context, file *models.LibraryFile) error {
	query := `
		INSERT INTO library_files (
			id, scope, filename, mime_type, size, text_length, storage_path
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.db.QueryRow(
		ctx, query,
		file.ID,
		file.Scope,
		file.Filename,
		file.MimeType,
		file.Size,
		file.TextLength,
		file.StoragePath,
	).Scan(&file.CreatedAt)
}

// GetByID retrieves a file by ID within a scope
func (r *FileRepository) GetByID(ctx context.Context, scope string, id uuid.UUID) (*models.LibraryFile, error) {
	file := &models.LibraryFile{}
	query := `
		SELECT id, scope, filename, mime_type, size, text_length, storage_path, created_at
		FROM library_files
		WHERE id = $1 AND scope = $2`

	err := r.db.QueryRow(ctx, query, id, scope).Scan(
		&file.ID,
		&file.Scope,
		&file.Filename,
		&file.MimeType,
		&file.Size,
		&file.TextLength,
		&file.StoragePath,
		&file.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return file, nil
}

// ListByScope retrieves all files of a library, newest first
func (r *FileRepository) ListByScope(ctx context.Context, scope string) ([]*models.LibraryFile, error) {
	query := `
		SELECT id, scope, filename, mime_type, size, text_length, storage_path, created_at
		FROM library_files
		WHERE scope = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := make([]*models.LibraryFile, 0)
	for rows.Next() {
		file := &models.LibraryFile{}
		err := rows.Scan(
			&file.ID,
			&file.Scope,
			&file.Filename,
			&file.MimeType,
			&file.Size,
			&file.TextLength,
			&file.StoragePath,
			&file.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, rows.Err()
}

// DeleteByScope deletes every file record of a library and returns their storage paths
func (r *FileRepository) DeleteByScope(ctx context.Context, scope string) ([]string, error) {
	query := `DELETE FROM library_files WHERE scope = $1 RETURNING storage_path`

	rows, err := r.db.Query(ctx, query, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return paths, rows.Err()
}
