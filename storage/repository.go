package storage

import (
	"context"
	"errors"

	"brainer-platform/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// UserFilter narrows ListUsers. Zero fields match everything.
type UserFilter struct {
	Role     models.Role
	SchoolID string
}

// UserStore is the user directory.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	// UpdateUser runs fn against the current record and persists the result
	// atomically with respect to other UpdateUser calls for the same id.
	UpdateUser(ctx context.Context, id string, fn func(u *models.User) error) (*models.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error)
}

// SchoolStore is the school directory.
type SchoolStore interface {
	GetSchool(ctx context.Context, id string) (*models.School, error)
	CreateSchool(ctx context.Context, s *models.School) error
	UpdateSchool(ctx context.Context, id string, fn func(s *models.School) error) (*models.School, error)
	ListSchools(ctx context.Context) ([]models.School, error)
	DeleteSchool(ctx context.Context, id string) error
}

// LedgerStore holds the append-only per-user registration and enrollment
// sequences. List methods return rows in insertion order.
type LedgerStore interface {
	ListRegistrations(ctx context.Context, userID string) ([]models.Registration, error)
	AppendRegistration(ctx context.Context, reg *models.Registration) error
	ListEnrollments(ctx context.Context, userID string) ([]models.Enrollment, error)
	AppendEnrollment(ctx context.Context, e *models.Enrollment) error
}

// Repository defines the full persistence surface used by the services.
type Repository interface {
	UserStore
	SchoolStore
	LedgerStore

	Ping(ctx context.Context) error
	Close() error
}
