package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"brainer-platform/models"
)

var _ Repository = (*MemoryStore)(nil)

// MemoryStore keeps all state in process memory for the lifetime of the
// session. Every method returns copies, so callers never alias stored records.
type MemoryStore struct {
	mu sync.RWMutex

	users         map[string]*models.User
	userOrder     []string
	schools       map[string]*models.School
	schoolOrder   []string
	registrations map[string][]models.Registration
	enrollments   map[string][]models.Enrollment
	seq           int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]*models.User),
		schools:       make(map[string]*models.School),
		registrations: make(map[string][]models.Registration),
		enrollments:   make(map[string][]models.Enrollment),
	}
}

func (m *MemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	out := u.Clone()
	return &out, nil
}

func (m *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.userOrder {
		u := m.users[id]
		if strings.EqualFold(u.Email, email) {
			out := u.Clone()
			return &out, nil
		}
	}
	return nil, fmt.Errorf("user with email %q: %w", email, ErrNotFound)
}

func (m *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; ok {
		return fmt.Errorf("user %s: %w", u.ID, ErrConflict)
	}
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("user with email %q: %w", u.Email, ErrConflict)
		}
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	stored := u.Clone()
	m.users[u.ID] = &stored
	m.userOrder = append(m.userOrder, u.ID)
	return nil
}

func (m *MemoryStore) UpdateUser(_ context.Context, id string, fn func(u *models.User) error) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	working := current.Clone()
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.ID = id
	working.UpdatedAt = time.Now()
	stored := working.Clone()
	m.users[id] = &stored
	return &working, nil
}

func (m *MemoryStore) ListUsers(_ context.Context, filter UserFilter) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.User
	for _, id := range m.userOrder {
		u := m.users[id]
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.SchoolID != "" && (u.SchoolID == nil || *u.SchoolID != filter.SchoolID) {
			continue
		}
		out = append(out, u.Clone())
	}
	return out, nil
}

func (m *MemoryStore) GetSchool(_ context.Context, id string) (*models.School, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.schools[id]
	if !ok {
		return nil, fmt.Errorf("school %s: %w", id, ErrNotFound)
	}
	out := *s
	return &out, nil
}

func (m *MemoryStore) CreateSchool(_ context.Context, s *models.School) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schools[s.ID]; ok {
		return fmt.Errorf("school %s: %w", s.ID, ErrConflict)
	}
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now
	stored := *s
	m.schools[s.ID] = &stored
	m.schoolOrder = append(m.schoolOrder, s.ID)
	return nil
}

func (m *MemoryStore) UpdateSchool(_ context.Context, id string, fn func(s *models.School) error) (*models.School, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.schools[id]
	if !ok {
		return nil, fmt.Errorf("school %s: %w", id, ErrNotFound)
	}
	working := *current
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.ID = id
	working.UpdatedAt = time.Now()
	stored := working
	m.schools[id] = &stored
	return &working, nil
}

func (m *MemoryStore) ListSchools(_ context.Context) ([]models.School, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.School, 0, len(m.schoolOrder))
	for _, id := range m.schoolOrder {
		out = append(out, *m.schools[id])
	}
	return out, nil
}

func (m *MemoryStore) DeleteSchool(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schools[id]; !ok {
		return fmt.Errorf("school %s: %w", id, ErrNotFound)
	}
	delete(m.schools, id)
	for i, sid := range m.schoolOrder {
		if sid == id {
			m.schoolOrder = append(m.schoolOrder[:i], m.schoolOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) ListRegistrations(_ context.Context, userID string) ([]models.Registration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	regs := m.registrations[userID]
	out := make([]models.Registration, len(regs))
	copy(out, regs)
	return out, nil
}

func (m *MemoryStore) AppendRegistration(_ context.Context, reg *models.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	reg.Seq = m.seq
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now()
	}
	m.registrations[reg.UserID] = append(m.registrations[reg.UserID], *reg)
	return nil
}

func (m *MemoryStore) ListEnrollments(_ context.Context, userID string) ([]models.Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := m.enrollments[userID]
	out := make([]models.Enrollment, len(list))
	copy(out, list)
	return out, nil
}

func (m *MemoryStore) AppendEnrollment(_ context.Context, e *models.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.enrollments[e.UserID] {
		if existing.CourseID == e.CourseID {
			return fmt.Errorf("enrollment %s/%d: %w", e.UserID, e.CourseID, ErrConflict)
		}
	}
	m.seq++
	e.Seq = m.seq
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	m.enrollments[e.UserID] = append(m.enrollments[e.UserID], *e)
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
func (m *MemoryStore) Close() error               { return nil }
