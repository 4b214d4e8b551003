package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"brainer-platform/models"
	"brainer-platform/storage"
	"brainer-platform/utils"
)

// RegistrationService drives a registration from quote to ledger commit:
// pricing, simulated payment, ledger write, gamification and notification.
type RegistrationService struct {
	Repo          storage.Repository
	Catalog       *storage.Catalog
	Ledger        *Ledger
	Gamification  *GamificationService
	Payments      *PaymentSimulator
	Notifications *NotificationHub
}

func NewRegistrationService(
	repo storage.Repository,
	catalog *storage.Catalog,
	ledger *Ledger,
	gamification *GamificationService,
	payments *PaymentSimulator,
	notifications *NotificationHub,
) *RegistrationService {
	return &RegistrationService{
		Repo:          repo,
		Catalog:       catalog,
		Ledger:        ledger,
		Gamification:  gamification,
		Payments:      payments,
		Notifications: notifications,
	}
}

// payerFor looks the school plan up at evaluation time.
func (s *RegistrationService) payerFor(ctx context.Context, u *models.User) (Payer, error) {
	if !u.IsSchoolAffiliated() {
		return Payer{}, nil
	}
	school, err := s.Repo.GetSchool(ctx, *u.SchoolID)
	if errors.Is(err, storage.ErrNotFound) {
		// A dangling affiliation still prices at the school base fee.
		return Payer{SchoolAffiliated: true, Plan: models.PlanFree}, nil
	}
	if err != nil {
		return Payer{}, err
	}
	return PayerFor(u, school.SubscriptionPlan), nil
}

// QuoteRegistration prices a single registration. A competition the user has
// already paid for is rejected.
func (s *RegistrationService) QuoteRegistration(ctx context.Context, userID string, competitionID int, code string) (PriceQuote, error) {
	comp, err := s.Catalog.Competition(competitionID)
	if err != nil {
		return PriceQuote{}, err
	}
	u, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return PriceQuote{}, err
	}
	registered, err := s.Ledger.IsRegistered(ctx, userID, competitionID)
	if err != nil {
		return PriceQuote{}, err
	}
	if registered {
		return PriceQuote{}, invalid("competition_id", fmt.Sprintf("You are already registered for %q.", comp.Title))
	}
	payer, err := s.payerFor(ctx, u)
	if err != nil {
		return PriceQuote{}, err
	}
	q := Quote(payer, code)
	q.DisplayFinalFee = utils.FormatNaira(q.FinalFee)
	return q, nil
}

// StartCheckout begins a simulated payment for one student. A rejected
// discount code does not block payment; the full fee is charged. The payment
// simulator refuses a second checkout while one for the same competition is
// still in flight.
func (s *RegistrationService) StartCheckout(ctx context.Context, userID string, competitionID int, code string) (Checkout, error) {
	q, err := s.QuoteRegistration(ctx, userID, competitionID, code)
	if err != nil {
		return Checkout{}, err
	}
	return s.Payments.Submit(Checkout{
		PayerID:       userID,
		CompetitionID: competitionID,
		StudentIDs:    []string{userID},
		Quote:         q,
	}, s.settleSingle)
}

func (s *RegistrationService) settleSingle(ctx context.Context, c Checkout) ([]RegistrationResult, error) {
	res, err := s.Ledger.RegisterPaid(ctx, c.PayerID, c.CompetitionID)
	if err != nil {
		s.Notifications.Publish(c.PayerID, NotifyPayment, "error", "Your payment could not be completed. Please try again.")
		return nil, err
	}
	results := []RegistrationResult{res}
	if res.Applied {
		if comp, err := s.Catalog.Competition(c.CompetitionID); err == nil {
			s.Notifications.Publish(c.PayerID, NotifyRegistration, "success", fmt.Sprintf("Successfully registered for %q!", comp.Title))
		}
	}
	if err := s.afterRegistration(ctx, res); err != nil {
		return results, err
	}
	return results, nil
}

// QuoteBulkRegistration validates a bulk registration by a Premium school
// admin and prices it. Students already registered for the competition are
// left out; the returned ids are the deduplicated students being charged for.
func (s *RegistrationService) QuoteBulkRegistration(ctx context.Context, adminID string, competitionID int, studentIDs []string, code string) (PriceQuote, []string, error) {
	comp, err := s.Catalog.Competition(competitionID)
	if err != nil {
		return PriceQuote{}, nil, err
	}
	_, school, err := adminSchool(ctx, s.Repo, adminID)
	if err != nil {
		return PriceQuote{}, nil, err
	}
	if school.SubscriptionPlan != models.PlanPremium {
		return PriceQuote{}, nil, fmt.Errorf("bulk registration requires the Premium plan: %w", ErrForbidden)
	}
	ids := dedupe(studentIDs)
	if len(ids) == 0 {
		return PriceQuote{}, nil, invalid("student_ids", "Select at least one student.")
	}
	for _, id := range ids {
		st, err := s.Repo.GetUser(ctx, id)
		if err != nil {
			return PriceQuote{}, nil, err
		}
		if st.Role != models.RoleStudent || st.SchoolID == nil || *st.SchoolID != school.ID {
			return PriceQuote{}, nil, fmt.Errorf("student %s is not enrolled at %s: %w", id, school.Name, ErrForbidden)
		}
		if !st.IsApproved() {
			return PriceQuote{}, nil, invalid("student_ids", fmt.Sprintf("%s has not been approved yet.", st.Name))
		}
	}

	unregistered := make([]string, 0, len(ids))
	for _, id := range ids {
		registered, err := s.Ledger.IsRegistered(ctx, id, competitionID)
		if err != nil {
			return PriceQuote{}, nil, err
		}
		if !registered {
			unregistered = append(unregistered, id)
		}
	}
	if len(unregistered) == 0 {
		return PriceQuote{}, nil, invalid("student_ids", fmt.Sprintf("All selected students are already registered for %q.", comp.Title))
	}

	q := QuoteBulk(school.SubscriptionPlan, len(unregistered), code)
	q.DisplayFinalFee = utils.FormatNaira(q.FinalFee)
	return q, unregistered, nil
}

// StartBulkCheckout lets a Premium school admin pay for several of the
// school's approved students at once.
func (s *RegistrationService) StartBulkCheckout(ctx context.Context, adminID string, competitionID int, studentIDs []string, code string) (Checkout, error) {
	q, ids, err := s.QuoteBulkRegistration(ctx, adminID, competitionID, studentIDs, code)
	if err != nil {
		return Checkout{}, err
	}
	return s.Payments.Submit(Checkout{
		PayerID:       adminID,
		CompetitionID: competitionID,
		StudentIDs:    ids,
		Bulk:          true,
		Quote:         q,
	}, s.settleBulk)
}

func (s *RegistrationService) settleBulk(ctx context.Context, c Checkout) ([]RegistrationResult, error) {
	results, err := s.Ledger.RegisterBulkPaid(ctx, c.StudentIDs, c.CompetitionID)
	for _, res := range results {
		if gerr := s.afterRegistration(ctx, res); gerr != nil {
			log.Printf("⚠️ [REGISTRATION] Gamification failed for %s: %v", res.UserID, gerr)
		}
	}
	if err != nil {
		s.Notifications.Publish(c.PayerID, NotifyPayment, "error", fmt.Sprintf("Bulk payment stopped after %d of %d students.", len(results), len(c.StudentIDs)))
		return results, err
	}
	applied := 0
	for _, res := range results {
		if res.Applied {
			applied++
		}
	}
	s.Notifications.Publish(c.PayerID, NotifyRegistration, "success", bulkNotice(applied))
	return results, nil
}

// afterRegistration runs gamification for an applied registration and
// notifies the student of any badge they unlocked.
func (s *RegistrationService) afterRegistration(ctx context.Context, res RegistrationResult) error {
	if !res.Applied {
		return nil
	}
	progress, err := s.Gamification.OnRegistrationApplied(ctx, RegistrationApplied{
		UserID:         res.UserID,
		CompetitionID:  res.CompetitionID,
		PriorPaidCount: res.PriorPaidCount,
	})
	if err != nil {
		return err
	}
	s.notifyBadges(res.UserID, progress)
	return nil
}

func (s *RegistrationService) notifyBadges(userID string, p *Progress) {
	for _, b := range p.NewBadges {
		s.Notifications.Publish(userID, NotifyBadge, "success", fmt.Sprintf("Congratulations! You've earned the %q badge!", b.Name))
	}
}

func (s *RegistrationService) GetCheckout(id string) (Checkout, error) {
	return s.Payments.Get(id)
}

// CancelCheckout abandons a checkout. Nothing is written to the ledger.
func (s *RegistrationService) CancelCheckout(id string) (Checkout, error) {
	c, err := s.Payments.Cancel(id)
	if err != nil {
		return c, err
	}
	s.Notifications.Publish(c.PayerID, NotifyPayment, "info", "Payment cancelled. You have not been charged.")
	return c, nil
}

// Enroll enrolls a user in a course. Enrollment is free.
func (s *RegistrationService) Enroll(ctx context.Context, userID string, courseID int) (EnrollmentResult, *Progress, error) {
	course, err := s.Catalog.Course(courseID)
	if err != nil {
		return EnrollmentResult{}, nil, err
	}
	if _, err := s.Repo.GetUser(ctx, userID); err != nil {
		return EnrollmentResult{}, nil, err
	}
	res, err := s.Ledger.Enroll(ctx, userID, courseID)
	if err != nil || !res.Applied {
		return res, nil, err
	}
	progress, err := s.Gamification.OnEnrollmentApplied(ctx, EnrollmentApplied{
		UserID:               userID,
		CourseID:             courseID,
		PriorEnrollmentCount: res.PriorEnrollmentCount,
	})
	if err != nil {
		return res, nil, err
	}
	s.Notifications.Publish(userID, NotifyEnrollment, "success", fmt.Sprintf("Successfully enrolled in %q!", course.Title))
	s.notifyBadges(userID, progress)
	return res, progress, nil
}

// MyRegistrations lists the competitions and courses a user has joined.
type MyRegistrations struct {
	Competitions []models.Competition `json:"competitions"`
	Courses      []models.Course      `json:"courses"`
}

func (s *RegistrationService) ListForUser(ctx context.Context, userID string) (*MyRegistrations, error) {
	compIDs, err := s.Ledger.ListPaidCompetitionIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	courseIDs, err := s.Ledger.ListEnrolledCourseIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &MyRegistrations{Competitions: []models.Competition{}, Courses: []models.Course{}}
	for _, id := range compIDs {
		if c, err := s.Catalog.Competition(id); err == nil {
			out.Competitions = append(out.Competitions, *c)
		}
	}
	for _, id := range courseIDs {
		if c, err := s.Catalog.Course(id); err == nil {
			out.Courses = append(out.Courses, *c)
		}
	}
	return out, nil
}

func bulkNotice(applied int) string {
	if applied == 1 {
		return "1 student successfully registered!"
	}
	return fmt.Sprintf("%d students successfully registered!", applied)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
