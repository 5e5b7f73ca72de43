package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"

	"videoqc/internal/domain"
	"videoqc/internal/port"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	db *sql.DB
}

var hookOnce sync.Once

func registerHook() {
	hookOnce.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, dsn string) error {
			pragmas := []string{
				"PRAGMA journal_mode = WAL",
				"PRAGMA busy_timeout = 5000",
				"PRAGMA synchronous = NORMAL",
				"PRAGMA foreign_keys = ON",
			}
			for _, p := range pragmas {
				if _, err := conn.ExecContext(context.Background(), p, nil); err != nil {
					return fmt.Errorf("execute %s: %w", p, err)
				}
			}
			return nil
		})
	})
}

func NewStore(dataDir string) (*Store, error) {
	registerHook()

	dbPath := filepath.Join(dataDir, "videoqc.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL allows concurrent reads but only one writer.
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

const mediaColumns = `id, original_name, original_path, converted_path, status,
	error_message, file_size, probe_json, created_at`

func (s *Store) Save(m *domain.Media) error {
	_, err := s.db.Exec(
		`INSERT INTO media (`+mediaColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.OriginalName, m.OriginalPath, m.ConvertedPath, string(m.Status),
		m.ErrorMessage, m.FileSize, m.ProbeJSON, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert media: %w", err)
	}
	return nil
}

func (s *Store) Get(id string) (*domain.Media, error) {
	row := s.db.QueryRow(`SELECT `+mediaColumns+` FROM media WHERE id = ?`, id)
	m, err := scanMedia(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *Store) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM media WHERE id = ?`, id)
	return err
}

func (s *Store) ListAll() ([]*domain.Media, error) {
	rows, err := s.db.Query(`SELECT ` + mediaColumns + ` FROM media ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*domain.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (s *Store) UpdateStatus(id string, status domain.MediaStatus, errMsg string) error {
	_, err := s.db.Exec(
		`UPDATE media SET status = ?, error_message = ? WHERE id = ?`,
		string(status), errMsg, id,
	)
	return err
}

func (s *Store) UpdateDone(id string, convertedPath string) error {
	_, err := s.db.Exec(
		`UPDATE media SET status = ?, converted_path = ?, error_message = '' WHERE id = ?`,
		string(domain.MediaStatusDone), convertedPath, id,
	)
	return err
}

func (s *Store) UpdateProbeJSON(id string, probeJSON string) error {
	_, err := s.db.Exec(`UPDATE media SET probe_json = ? WHERE id = ?`, probeJSON, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedia(row rowScanner) (*domain.Media, error) {
	var m domain.Media
	var status string
	err := row.Scan(
		&m.ID, &m.OriginalName, &m.OriginalPath, &m.ConvertedPath, &status,
		&m.ErrorMessage, &m.FileSize, &m.ProbeJSON, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Status = domain.MediaStatus(status)
	return &m, nil
}

var _ port.MediaStore = (*Store)(nil)
