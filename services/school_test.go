package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"brainer-platform/models"
)

// memoryUploads pretends to store uploads and returns a predictable URL.
type memoryUploads struct{}

func (memoryUploads) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	return "https://cdn.test/" + key, nil
}

func TestDecideApproval(t *testing.T) {
	ctx := context.Background()
	p := newTestPlatform(t, 0)

	res, err := p.accounts.Signup(ctx, models.StudentSignup{Name: "Ngozi", Email: "ngozi@example.com", SchoolID: "3"})
	if err != nil {
		t.Fatal(err)
	}
	if res.User.Approval != models.ApprovalPending {
		t.Fatalf("new school student approval = %q", res.User.Approval)
	}

	// Admin of another school cannot decide.
	if _, err := p.schools.DecideApproval(ctx, "201", res.User.ID, true); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign admin: %v", err)
	}

	admin := &models.User{ID: "203", Name: "Fr. Chukwuma", Email: "admin@loyolajesuit.org", Role: models.RoleSchoolAdmin, SchoolID: strPtr("3")}
	if err := p.repo.CreateUser(ctx, admin); err != nil {
		t.Fatal(err)
	}
	u, err := p.schools.DecideApproval(ctx, "203", res.User.ID, true)
	if err != nil || u.Approval != models.ApprovalApproved {
		t.Fatalf("approve = %+v, %v", u, err)
	}
}

func TestRejectMakesIndividual(t *testing.T) {
	ctx := context.Background()
	p := newTestPlatform(t, 0)

	res, _ := p.accounts.Signup(ctx, models.StudentSignup{Name: "Kemi", Email: "kemi@example.com", SchoolID: "1"})
	u, err := p.schools.DecideApproval(ctx, "201", res.User.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if u.IsSchoolAffiliated() || u.Approval != models.ApprovalNone || !u.IsApproved() {
		t.Errorf("rejected student = %+v", u)
	}

	q, _ := p.registrations.QuoteRegistration(ctx, u.ID, 1, "")
	if q.FinalFee != IndividualFee {
		t.Errorf("rejected student pays %d", q.FinalFee)
	}
}

func TestApprovalBlockedAtPlanLimit(t *testing.T) {
	ctx := context.Background()
	p := newTestPlatform(t, 0)
	admin := &models.User{ID: "203", Name: "Admin", Email: "admin@loyolajesuit.org", Role: models.RoleSchoolAdmin, SchoolID: strPtr("3")}
	_ = p.repo.CreateUser(ctx, admin)

	// Loyola is on Free (50). The seed already has one approved student.
	for i := 0; i < 49; i++ {
		err := p.repo.CreateUser(ctx, &models.User{
			ID:       fmt.Sprintf("fill-%d", i),
			Email:    fmt.Sprintf("fill-%d@example.com", i),
			Role:     models.RoleStudent,
			SchoolID: strPtr("3"),
			Approval: models.ApprovalApproved,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	res, _ := p.accounts.Signup(ctx, models.StudentSignup{Name: "Late", Email: "late@example.com", SchoolID: "3"})

	_, err := p.schools.DecideApproval(ctx, "203", res.User.ID, true)
	if !IsValidation(err) {
		t.Fatalf("expected limit error, got %v", err)
	}

	dash, err := p.schools.Dashboard(ctx, "203")
	if err != nil {
		t.Fatal(err)
	}
	if !dash.AtStudentLimit || dash.StudentLimit != 50 || len(dash.PendingStudents) != 1 {
		t.Errorf("dashboard = limit %d, at %v, pending %d", dash.StudentLimit, dash.AtStudentLimit, len(dash.PendingStudents))
	}

	if _, _, err := p.schools.UpgradePlan(ctx, "203", models.PlanBasic); err != nil {
		t.Fatal(err)
	}
	if _, err := p.schools.DecideApproval(ctx, "203", res.User.ID, true); err != nil {
		t.Errorf("approve after upgrade: %v", err)
	}
}

func TestUpgradePlan(t *testing.T) {
	ctx := context.Background()
	p := newTestPlatform(t, 0)

	school, changed, err := p.schools.UpgradePlan(ctx, "201", models.PlanPremium)
	if err != nil || changed || school.SubscriptionPlan != models.PlanPremium {
		t.Fatalf("same plan = %+v, %v, %v", school, changed, err)
	}

	_, _, err = p.schools.UpgradePlan(ctx, "201", models.PlanBasic)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Message != "Contact Support to Downgrade" {
		t.Fatalf("downgrade: %v", err)
	}

	if _, _, err := p.schools.UpgradePlan(ctx, "201", "Platinum"); !IsValidation(err) {
		t.Errorf("unknown plan: %v", err)
	}
	if _, _, err := p.schools.UpgradePlan(ctx, "101", models.PlanPremium); !errors.Is(err, ErrForbidden) {
		t.Errorf("student upgrading: %v", err)
	}
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	p := newTestPlatform(t, 0)
	_, _ = p.ledger.RegisterPaid(ctx, "101", 1)
	_, _ = p.ledger.RegisterPaid(ctx, "101", 2)
	_, _ = p.ledger.RegisterPaid(ctx, "106", 1)

	dash, err := p.schools.Dashboard(ctx, "201")
	if err != nil {
		t.Fatal(err)
	}
	if len(dash.ApprovedStudents) != 4 || dash.TotalRegistrations != 3 {
		t.Errorf("approved %d, registrations %d", len(dash.ApprovedStudents), dash.TotalRegistrations)
	}
	if dash.StudentLimit != 0 || dash.AtStudentLimit || !dash.BulkRegistrationActive {
		t.Errorf("premium dashboard flags wrong: %+v", dash)
	}
	if dash.TopStudents[0].ID != "101" {
		t.Errorf("top student = %s", dash.TopStudents[0].ID)
	}
}

func TestUploadLogo(t *testing.T) {
	ctx := context.Background()
	p := newTestPlatform(t, 0)

	school, err := p.schools.UploadLogo(ctx, "201", "crest.png", "image/png", strings.NewReader("png"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(school.LogoURL, "https://cdn.test/logos/1/") || !strings.HasSuffix(school.LogoURL, ".png") {
		t.Errorf("logo url = %q", school.LogoURL)
	}
	stored, _ := p.repo.GetSchool(ctx, "1")
	if stored.LogoURL != school.LogoURL {
		t.Error("logo not persisted")
	}

	if _, err := p.schools.UploadLogo(ctx, "201", "notes", "text/plain", strings.NewReader("x")); !IsValidation(err) {
		t.Errorf("non-image upload: %v", err)
	}
}

func strPtr(s string) *string { return &s }
