package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"brainer-platform/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ Repository = (*PostgresStore)(nil)

// PostgresStore persists users, schools and the ledgers through GORM.
type PostgresStore struct {
	DB *gorm.DB
}

// NewPostgresStore opens the database and migrates the schema.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(
		&models.School{},
		&models.User{},
		&models.Registration{},
		&models.Enrollment{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Println("✅ [STORAGE] Postgres schema migrated")
	return &PostgresStore{DB: db}, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user "+id)
	}
	return &u, nil
}

func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&u).Error
	if err != nil {
		return nil, notFound(err, "user with email "+email)
	}
	return &u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %s: %w", u.ID, ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, id string, fn func(u *models.User) error) (*models.User, error) {
	var updated models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&u, "id = ?", id).Error; err != nil {
			return notFound(err, "user "+id)
		}
		if err := fn(&u); err != nil {
			return err
		}
		u.ID = id
		if err := tx.Save(&u).Error; err != nil {
			return fmt.Errorf("save user %s: %w", id, err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error) {
	q := s.DB.WithContext(ctx).Model(&models.User{})
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.SchoolID != "" {
		q = q.Where("school_id = ?", filter.SchoolID)
	}
	var users []models.User
	if err := q.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *PostgresStore) GetSchool(ctx context.Context, id string) (*models.School, error) {
	var school models.School
	if err := s.DB.WithContext(ctx).First(&school, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "school "+id)
	}
	return &school, nil
}

func (s *PostgresStore) CreateSchool(ctx context.Context, school *models.School) error {
	if err := s.DB.WithContext(ctx).Create(school).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("school %s: %w", school.ID, ErrConflict)
		}
		return fmt.Errorf("create school: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteSchool(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Delete(&models.School{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete school: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("school %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) UpdateSchool(ctx context.Context, id string, fn func(s *models.School) error) (*models.School, error) {
	var updated models.School
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var school models.School
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&school, "id = ?", id).Error; err != nil {
			return notFound(err, "school "+id)
		}
		if err := fn(&school); err != nil {
			return err
		}
		school.ID = id
		if err := tx.Save(&school).Error; err != nil {
			return fmt.Errorf("save school %s: %w", id, err)
		}
		updated = school
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *PostgresStore) ListSchools(ctx context.Context) ([]models.School, error) {
	var schools []models.School
	if err := s.DB.WithContext(ctx).Order("created_at ASC").Find(&schools).Error; err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

func (s *PostgresStore) ListRegistrations(ctx context.Context, userID string) ([]models.Registration, error) {
	var regs []models.Registration
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("seq ASC").
		Find(&regs).Error
	if err != nil {
		return nil, fmt.Errorf("list registrations for %s: %w", userID, err)
	}
	return regs, nil
}

func (s *PostgresStore) AppendRegistration(ctx context.Context, reg *models.Registration) error {
	if reg.Seq == 0 {
		reg.Seq = time.Now().UnixNano()
	}
	if err := s.DB.WithContext(ctx).Create(reg).Error; err != nil {
		return fmt.Errorf("append registration for %s: %w", reg.UserID, err)
	}
	return nil
}

func (s *PostgresStore) ListEnrollments(ctx context.Context, userID string) ([]models.Enrollment, error) {
	var list []models.Enrollment
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("seq ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list enrollments for %s: %w", userID, err)
	}
	return list, nil
}

func (s *PostgresStore) AppendEnrollment(ctx context.Context, e *models.Enrollment) error {
	if e.Seq == 0 {
		e.Seq = time.Now().UnixNano()
	}
	if err := s.DB.WithContext(ctx).Create(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("enrollment %s/%d: %w", e.UserID, e.CourseID, ErrConflict)
		}
		return fmt.Errorf("append enrollment for %s: %w", e.UserID, err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
