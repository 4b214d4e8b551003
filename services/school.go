package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"sort"
	"strings"

	"brainer-platform/models"
	"brainer-platform/storage"

	"github.com/google/uuid"
)

// LogoStore uploads school logos and returns their public URL.
type LogoStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type SchoolService struct {
	Repo          storage.Repository
	Ledger        *Ledger
	Notifications *NotificationHub
	Logos         LogoStore
}

func NewSchoolService(repo storage.Repository, ledger *Ledger, notifications *NotificationHub, logos LogoStore) *SchoolService {
	return &SchoolService{Repo: repo, Ledger: ledger, Notifications: notifications, Logos: logos}
}

// adminSchool resolves the school managed by a school admin.
func adminSchool(ctx context.Context, repo storage.Repository, adminID string) (*models.User, *models.School, error) {
	admin, err := repo.GetUser(ctx, adminID)
	if err != nil {
		return nil, nil, err
	}
	if admin.Role != models.RoleSchoolAdmin || !admin.IsSchoolAffiliated() {
		return nil, nil, fmt.Errorf("user %s is not a school admin: %w", adminID, ErrForbidden)
	}
	school, err := repo.GetSchool(ctx, *admin.SchoolID)
	if err != nil {
		return nil, nil, err
	}
	return admin, school, nil
}

func (s *SchoolService) students(ctx context.Context, schoolID string) (approved, pending []models.User, err error) {
	list, err := s.Repo.ListUsers(ctx, storage.UserFilter{Role: models.RoleStudent, SchoolID: schoolID})
	if err != nil {
		return nil, nil, err
	}
	approved, pending = []models.User{}, []models.User{}
	for _, u := range list {
		if u.IsApproved() {
			approved = append(approved, u)
		} else {
			pending = append(pending, u)
		}
	}
	return approved, pending, nil
}

// DecideApproval approves a pending student or rejects them. A rejected
// student loses the school affiliation and becomes an individual.
func (s *SchoolService) DecideApproval(ctx context.Context, adminID, studentID string, approve bool) (*models.User, error) {
	_, school, err := adminSchool(ctx, s.Repo, adminID)
	if err != nil {
		return nil, err
	}
	if approve {
		if limit := school.SubscriptionPlan.StudentLimit(); limit > 0 {
			approved, _, err := s.students(ctx, school.ID)
			if err != nil {
				return nil, err
			}
			if len(approved) >= limit {
				return nil, invalid("student_id", fmt.Sprintf("Your '%s' plan is limited to %d students. Please upgrade your plan to approve more.", school.SubscriptionPlan, limit))
			}
		}
	}

	updated, err := s.Repo.UpdateUser(ctx, studentID, func(u *models.User) error {
		if u.Role != models.RoleStudent || u.SchoolID == nil || *u.SchoolID != school.ID {
			return fmt.Errorf("student %s does not belong to %s: %w", studentID, school.Name, ErrForbidden)
		}
		if approve {
			u.Approval = models.ApprovalApproved
			return nil
		}
		u.Approval = models.ApprovalNone
		u.SchoolID = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	if approve {
		log.Printf("✅ [SCHOOL] %s approved student %s", school.Name, studentID)
		s.Notifications.Publish(studentID, NotifyApproval, "success", fmt.Sprintf("%s approved your membership.", school.Name))
		s.Notifications.Publish(adminID, NotifyApproval, "success", fmt.Sprintf("'%s' has been approved.", updated.Name))
	} else {
		log.Printf("🚫 [SCHOOL] %s rejected student %s", school.Name, studentID)
		s.Notifications.Publish(studentID, NotifyApproval, "error", fmt.Sprintf("%s declined your membership. You can still join competitions as an individual.", school.Name))
		s.Notifications.Publish(adminID, NotifyApproval, "error", fmt.Sprintf("'%s' has been rejected.", updated.Name))
	}
	return updated, nil
}

// UpgradePlan moves the admin's school to a higher plan. Choosing the current
// plan is a no-op; downgrades go through support.
func (s *SchoolService) UpgradePlan(ctx context.Context, adminID string, plan models.SubscriptionPlan) (*models.School, bool, error) {
	if !plan.Valid() {
		return nil, false, invalid("plan", fmt.Sprintf("Unknown plan %q.", plan))
	}
	_, school, err := adminSchool(ctx, s.Repo, adminID)
	if err != nil {
		return nil, false, err
	}
	switch {
	case plan == school.SubscriptionPlan:
		return school, false, nil
	case plan.Rank() < school.SubscriptionPlan.Rank():
		return school, false, invalid("plan", "Contact Support to Downgrade")
	}

	updated, err := s.Repo.UpdateSchool(ctx, school.ID, func(sc *models.School) error {
		sc.SubscriptionPlan = plan
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	log.Printf("⬆️ [SCHOOL] %s upgraded to %s", updated.Name, plan)
	s.Notifications.Publish(adminID, NotifyPlan, "success", fmt.Sprintf("Successfully upgraded to the %s plan!", plan))
	return updated, true, nil
}

// StudentSummary is a student row on the school dashboard.
type StudentSummary struct {
	models.User
	RegisteredCompetitions int `json:"registered_competitions"`
}

type Dashboard struct {
	School                 *models.School   `json:"school"`
	ApprovedStudents       []StudentSummary `json:"approved_students"`
	PendingStudents        []models.User    `json:"pending_students"`
	StudentLimit           int              `json:"student_limit"`
	AtStudentLimit         bool             `json:"at_student_limit"`
	TotalRegistrations     int              `json:"total_registrations"`
	TopStudents            []models.User    `json:"top_students"`
	BulkRegistrationActive bool             `json:"bulk_registration_enabled"`
}

const dashboardTopStudents = 10

func (s *SchoolService) Dashboard(ctx context.Context, adminID string) (*Dashboard, error) {
	_, school, err := adminSchool(ctx, s.Repo, adminID)
	if err != nil {
		return nil, err
	}
	approved, pending, err := s.students(ctx, school.ID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		School:                 school,
		PendingStudents:        pending,
		StudentLimit:           school.SubscriptionPlan.StudentLimit(),
		ApprovedStudents:       make([]StudentSummary, 0, len(approved)),
		BulkRegistrationActive: school.SubscriptionPlan == models.PlanPremium,
	}
	d.AtStudentLimit = d.StudentLimit > 0 && len(approved) >= d.StudentLimit
	for _, st := range approved {
		ids, err := s.Ledger.ListPaidCompetitionIDs(ctx, st.ID)
		if err != nil {
			return nil, err
		}
		d.TotalRegistrations += len(ids)
		d.ApprovedStudents = append(d.ApprovedStudents, StudentSummary{User: st, RegisteredCompetitions: len(ids)})
	}

	top := append([]models.User(nil), approved...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Points > top[j].Points })
	if len(top) > dashboardTopStudents {
		top = top[:dashboardTopStudents]
	}
	d.TopStudents = top
	return d, nil
}

var logoExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// UploadLogo stores a new logo for the admin's school.
func (s *SchoolService) UploadLogo(ctx context.Context, adminID, filename, contentType string, body io.Reader) (*models.School, error) {
	if s.Logos == nil {
		return nil, fmt.Errorf("logo storage is not configured")
	}
	_, school, err := adminSchool(ctx, s.Repo, adminID)
	if err != nil {
		return nil, err
	}
	ext, ok := logoExtensions[strings.ToLower(contentType)]
	if !ok {
		ext = strings.ToLower(path.Ext(filename))
		if ext == "" {
			return nil, invalid("logo", "Logo must be a PNG, JPEG, WebP or SVG image.")
		}
	}

	key := fmt.Sprintf("logos/%s/%s%s", school.ID, uuid.NewString(), ext)
	url, err := s.Logos.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo: %w", err)
	}
	updated, err := s.Repo.UpdateSchool(ctx, school.ID, func(sc *models.School) error {
		sc.LogoURL = url
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Notifications.Publish(adminID, NotifyPlan, "success", "School logo updated successfully!")
	return updated, nil
}
