package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"brainer-platform/models"
	"brainer-platform/storage"

	"github.com/google/uuid"
)

// RegistrationResult reports one registerPaid outcome. PriorPaidCount is the
// user's paid registration count before this call.
type RegistrationResult struct {
	UserID         string               `json:"user_id"`
	CompetitionID  int                  `json:"competition_id"`
	Applied        bool                 `json:"applied"`
	PriorPaidCount int                  `json:"-"`
	Registration   *models.Registration `json:"registration,omitempty"`
}

// EnrollmentResult reports one enroll outcome.
type EnrollmentResult struct {
	UserID               string `json:"user_id"`
	CourseID             int    `json:"course_id"`
	Applied              bool   `json:"applied"`
	PriorEnrollmentCount int    `json:"-"`
}

// Ledger owns the per-user registration and enrollment sequences. A paid
// registration is recorded at most once per (user, competition).
type Ledger struct {
	store storage.LedgerStore
	mu    sync.Mutex
}

func NewLedger(store storage.LedgerStore) *Ledger {
	return &Ledger{store: store}
}

func (l *Ledger) RegisterPaid(ctx context.Context, userID string, competitionID int) (RegistrationResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registerPaid(ctx, userID, competitionID, "mock_")
}

// RegisterBulkPaid applies RegisterPaid to each user in order. A no-op for
// one user never affects the others. On a storage error the results gathered
// so far are returned along with the error.
func (l *Ledger) RegisterBulkPaid(ctx context.Context, userIDs []string, competitionID int) ([]RegistrationResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	results := make([]RegistrationResult, 0, len(userIDs))
	for _, id := range userIDs {
		res, err := l.registerPaid(ctx, id, competitionID, "mock_bulk_")
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (l *Ledger) registerPaid(ctx context.Context, userID string, competitionID int, paymentPrefix string) (RegistrationResult, error) {
	res := RegistrationResult{UserID: userID, CompetitionID: competitionID}

	regs, err := l.store.ListRegistrations(ctx, userID)
	if err != nil {
		return res, fmt.Errorf("list registrations for %s: %w", userID, err)
	}
	for _, r := range regs {
		if r.Status != models.RegistrationPaid {
			continue
		}
		if r.CompetitionID == competitionID {
			log.Printf("↩️ [LEDGER] User %s already paid for competition %d", userID, competitionID)
			return res, nil
		}
		res.PriorPaidCount++
	}

	now := time.Now()
	reg := &models.Registration{
		ID:            uuid.NewString(),
		UserID:        userID,
		CompetitionID: competitionID,
		Status:        models.RegistrationPaid,
		PaymentID:     paymentPrefix + uuid.NewString(),
		PaidAt:        &now,
	}
	if err := l.store.AppendRegistration(ctx, reg); err != nil {
		return res, fmt.Errorf("append registration for %s: %w", userID, err)
	}
	res.Applied = true
	res.Registration = reg
	log.Printf("✅ [LEDGER] User %s registered for competition %d (payment %s)", userID, competitionID, reg.PaymentID)
	return res, nil
}

// ListPaidCompetitionIDs returns the competitions a user has paid for, in
// registration order.
func (l *Ledger) ListPaidCompetitionIDs(ctx context.Context, userID string) ([]int, error) {
	regs, err := l.store.ListRegistrations(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(regs))
	for _, r := range regs {
		if r.Status == models.RegistrationPaid {
			ids = append(ids, r.CompetitionID)
		}
	}
	return ids, nil
}

// ListRegistrations returns the user's full registration history.
func (l *Ledger) ListRegistrations(ctx context.Context, userID string) ([]models.Registration, error) {
	return l.store.ListRegistrations(ctx, userID)
}

// IsRegistered reports whether the user holds a paid registration.
func (l *Ledger) IsRegistered(ctx context.Context, userID string, competitionID int) (bool, error) {
	ids, err := l.ListPaidCompetitionIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == competitionID {
			return true, nil
		}
	}
	return false, nil
}

// Enroll adds courseID to the user's enrollments. Re-enrolling is a no-op.
func (l *Ledger) Enroll(ctx context.Context, userID string, courseID int) (EnrollmentResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res := EnrollmentResult{UserID: userID, CourseID: courseID}
	list, err := l.store.ListEnrollments(ctx, userID)
	if err != nil {
		return res, fmt.Errorf("list enrollments for %s: %w", userID, err)
	}
	for _, e := range list {
		if e.CourseID == courseID {
			return res, nil
		}
	}
	res.PriorEnrollmentCount = len(list)

	err = l.store.AppendEnrollment(ctx, &models.Enrollment{UserID: userID, CourseID: courseID})
	if errors.Is(err, storage.ErrConflict) {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("append enrollment for %s: %w", userID, err)
	}
	res.Applied = true
	log.Printf("✅ [LEDGER] User %s enrolled in course %d", userID, courseID)
	return res, nil
}

func (l *Ledger) ListEnrolledCourseIDs(ctx context.Context, userID string) ([]int, error) {
	list, err := l.store.ListEnrollments(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(list))
	for i, e := range list {
		ids[i] = e.CourseID
	}
	return ids, nil
}

// PaidCount returns the number of paid registrations across users.
func (l *Ledger) PaidCount(ctx context.Context, userIDs []string) (int, error) {
	total := 0
	for _, id := range userIDs {
		ids, err := l.ListPaidCompetitionIDs(ctx, id)
		if err != nil {
			return 0, err
		}
		total += len(ids)
	}
	return total, nil
}
