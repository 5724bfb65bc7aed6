package files

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reusee/tutor/storages"
)

//go:embed migrations/*.sql
var migrations embed.FS

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = new(SQLiteStore)

// OpenSQLite opens the store at path and applies the bundled migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := storages.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := storages.ApplyMigrations(ctx, db, migrations, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteStore{
		db: db,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func (s *SQLiteStore) Create(ctx context.Context, owner string, draft Draft) (File, error) {
	now := fromMillis(toMillis(s.now()))
	file := File{
		ID:        uuid.NewString(),
		Owner:     owner,
		Title:     draft.Title,
		Language:  draft.Language,
		Content:   draft.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if file.Title == "" {
		file.Title = DefaultTitle
	}
	if file.Language == "" {
		file.Language = DefaultLanguage
	}
	if _, err := s.db.ExecContext(ctx, `
INSERT INTO files (id, owner, title, language, content, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		file.ID,
		file.Owner,
		file.Title,
		file.Language,
		file.Content,
		toMillis(file.CreatedAt),
		toMillis(file.UpdatedAt),
	); err != nil {
		return File{}, fmt.Errorf("insert file: %w", err)
	}
	return file, nil
}

const selectFile = `
SELECT id, owner, title, language, content, created_at, updated_at
FROM files
`

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (File, error) {
	var file File
	var createdAt, updatedAt int64
	if err := row.Scan(
		&file.ID,
		&file.Owner,
		&file.Title,
		&file.Language,
		&file.Content,
		&createdAt,
		&updatedAt,
	); err != nil {
		return File{}, err
	}
	file.CreatedAt = fromMillis(createdAt)
	file.UpdatedAt = fromMillis(updatedAt)
	return file, nil
}

func (s *SQLiteStore) List(ctx context.Context, owner string) ([]File, error) {
	rows, err := s.db.QueryContext(ctx,
		selectFile+"WHERE owner = ? ORDER BY updated_at DESC, created_at DESC, id",
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()
	ret := []File{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		ret = append(ret, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return ret, nil
}

func (s *SQLiteStore) Get(ctx context.Context, owner string, id string) (File, error) {
	return getFile(s.db.QueryRowContext(ctx,
		selectFile+"WHERE owner = ? AND id = ?",
		owner, id,
	))
}

func getFile(row scanner) (File, error) {
	file, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return File{}, ErrNotFound
	}
	if err != nil {
		return File{}, fmt.Errorf("get file: %w", err)
	}
	return file, nil
}

func (s *SQLiteStore) Update(ctx context.Context, owner string, id string, patch Patch) (ret File, err error) {
	err = storages.WithTx(ctx, s.db, func(tx storages.Tx) error {
		file, err := getFile(tx.QueryRow(ctx,
			selectFile+"WHERE owner = ? AND id = ?",
			owner, id,
		))
		if err != nil {
			return err
		}
		if patch.Title != nil {
			file.Title = *patch.Title
		}
		if patch.Language != nil {
			file.Language = *patch.Language
		}
		if patch.Content != nil {
			file.Content = *patch.Content
		}
		file.UpdatedAt = fromMillis(toMillis(s.now()))
		if _, err := tx.Exec(ctx, `
UPDATE files SET title = ?, language = ?, content = ?, updated_at = ?
WHERE owner = ? AND id = ?
`,
			file.Title,
			file.Language,
			file.Content,
			toMillis(file.UpdatedAt),
			owner,
			id,
		); err != nil {
			return fmt.Errorf("update file: %w", err)
		}
		ret = file
		return nil
	})
	return
}

func (s *SQLiteStore) Delete(ctx context.Context, owner string, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM files WHERE owner = ? AND id = ?",
		owner, id,
	)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
