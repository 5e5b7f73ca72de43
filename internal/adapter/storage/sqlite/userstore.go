package sqlite

import (
	"database/sql"
	"errors"

	"videoqc/internal/domain"
	"videoqc/internal/port"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(store *Store) *UserStore {
	return &UserStore{db: store.db}
}

func (s *UserStore) HasUser() (bool, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *UserStore) GetUser(username string) (*domain.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username))
}

func (s *UserStore) GetUserByID(id int64) (*domain.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, username, password_hash, created_at FROM users WHERE id = ?`, id))
}

func (s *UserStore) CreateUser(username, passwordHash string) error {
	_, err := s.db.Exec(
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`, username, passwordHash)
	return err
}

func (s *UserStore) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ port.UserStore = (*UserStore)(nil)
