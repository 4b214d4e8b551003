package storage

import (
	"context"
	"errors"
	"testing"

	"brainer-platform/models"
)

func TestMemoryStoreUserCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	if err := m.CreateUser(ctx, &models.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: models.RoleStudent}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	u, err := m.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	u.Badges = append(u.Badges, models.BadgeFirstSteps)
	u.Points = 999

	again, _ := m.GetUser(ctx, "u1")
	if again.Points != 0 || len(again.Badges) != 0 {
		t.Errorf("stored user was mutated through a returned copy: %+v", again)
	}
}

func TestMemoryStoreDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	_ = m.CreateUser(ctx, &models.User{ID: "u1", Email: "ada@example.com"})
	err := m.CreateUser(ctx, &models.User{ID: "u2", Email: "ADA@example.com"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	found, err := m.FindUserByEmail(ctx, "Ada@Example.com")
	if err != nil || found.ID != "u1" {
		t.Fatalf("FindUserByEmail = %v, %v", found, err)
	}
}

func TestMemoryStoreUpdateUserErrorLeavesRecord(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	_ = m.CreateUser(ctx, &models.User{ID: "u1", Email: "a@b.c", Points: 10})

	boom := errors.New("boom")
	_, err := m.UpdateUser(ctx, "u1", func(u *models.User) error {
		u.Points = 500
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	u, _ := m.GetUser(ctx, "u1")
	if u.Points != 10 {
		t.Errorf("points = %d, want 10", u.Points)
	}

	if _, err := m.UpdateUser(ctx, "missing", func(*models.User) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreListUsersFilter(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	if err := SeedDemoData(ctx, m); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}
	// Seeding twice is harmless.
	if err := SeedDemoData(ctx, m); err != nil {
		t.Fatalf("second SeedDemoData: %v", err)
	}

	students, _ := m.ListUsers(ctx, UserFilter{Role: models.RoleStudent, SchoolID: "1"})
	if len(students) != 4 {
		t.Fatalf("expected 4 King's College students, got %d", len(students))
	}
	for i, want := range []string{"101", "103", "106", "107"} {
		if students[i].ID != want {
			t.Errorf("students[%d] = %s, want %s", i, students[i].ID, want)
		}
	}
}

func TestMemoryStoreLedgerOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	for _, id := range []int{3, 1, 2} {
		if err := m.AppendRegistration(ctx, &models.Registration{UserID: "u1", CompetitionID: id, Status: models.RegistrationPaid}); err != nil {
			t.Fatal(err)
		}
	}
	regs, _ := m.ListRegistrations(ctx, "u1")
	for i, want := range []int{3, 1, 2} {
		if regs[i].CompetitionID != want {
			t.Errorf("regs[%d] = %d, want %d", i, regs[i].CompetitionID, want)
		}
	}

	if err := m.AppendEnrollment(ctx, &models.Enrollment{UserID: "u1", CourseID: 1}); err != nil {
		t.Fatal(err)
	}
	if err := m.AppendEnrollment(ctx, &models.Enrollment{UserID: "u1", CourseID: 1}); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict on duplicate enrollment, got %v", err)
	}
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(c.Competitions) < 4 || len(c.Courses) < 3 {
		t.Fatalf("catalog too small: %d competitions, %d courses", len(c.Competitions), len(c.Courses))
	}
	comp, err := c.CompetitionBySlug("the-catalyst-challenge")
	if err != nil {
		t.Fatalf("CompetitionBySlug: %v", err)
	}
	if comp.ID != 1 {
		t.Errorf("expected competition 1, got %d", comp.ID)
	}
	if _, err := c.Competition(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestParseCatalogRejectsDuplicateIDs(t *testing.T) {
	doc := []byte("competitions:\n  - id: 1\n    title: A\n  - id: 1\n    title: B\n")
	if _, err := ParseCatalog(doc); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestMemoryStoreDeleteSchool(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	for _, id := range []string{"a", "b", "c"} {
		if err := m.CreateSchool(ctx, &models.School{ID: id, Name: "School " + id}); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.DeleteSchool(ctx, "b"); err != nil {
		t.Fatalf("DeleteSchool: %v", err)
	}
	if _, err := m.GetSchool(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted school still found: %v", err)
	}
	list, _ := m.ListSchools(ctx)
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "c" {
		t.Errorf("ListSchools = %+v", list)
	}
	if err := m.DeleteSchool(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: %v", err)
	}
}
