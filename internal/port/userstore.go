package port

import "videoqc/internal/domain"

type UserStore interface {
	HasUser() (bool, error)
	GetUser(username string) (*domain.User, error)
	GetUserByID(id int64) (*domain.User, error)
	CreateUser(username, passwordHash string) error
}
