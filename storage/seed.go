package storage

import (
	"context"
	"errors"
	"fmt"
	"log"

	"brainer-platform/models"

	"gorm.io/datatypes"
)

func schoolRef(id string) *string { return &id }

var demoSchools = []models.School{
	{ID: "1", Name: "King's College, Lagos", Address: "3 Catholic Mission St, Lagos Island", ContactPerson: "Mr. Adekunle", ContactEmail: "admin@kingscollege.edu.ng", SubscriptionPlan: models.PlanPremium},
	{ID: "2", Name: "Queen's College, Lagos", Address: "4-6 Onike Rd, Yaba, Lagos", ContactPerson: "Mrs. Okoro", ContactEmail: "admin@queenscollege.edu.ng", SubscriptionPlan: models.PlanBasic},
	{ID: "3", Name: "Loyola Jesuit College, Abuja", Address: "GM 211, Loyola Street, Gidan Mangoro", ContactPerson: "Fr. Chukwuma", ContactEmail: "admin@loyolajesuit.org", SubscriptionPlan: models.PlanFree},
}

var demoUsers = []models.User{
	{ID: "101", Name: "Adebayo T.", Email: "adebayo@example.com", Points: 1250, Badges: datatypes.JSONSlice[int]{1, 2, 3, 5}, Role: models.RoleStudent, SchoolID: schoolRef("1"), Approval: models.ApprovalApproved},
	{ID: "102", Name: "Chidinma O.", Email: "chidinma@example.com", Points: 1100, Badges: datatypes.JSONSlice[int]{1, 2, 4}, Role: models.RoleStudent, SchoolID: schoolRef("2"), Approval: models.ApprovalApproved},
	{ID: "103", Name: "Musa I.", Email: "musa@example.com", Points: 950, Badges: datatypes.JSONSlice[int]{1, 3}, Role: models.RoleStudent, SchoolID: schoolRef("1"), Approval: models.ApprovalApproved},
	{ID: "104", Name: "Fatima S.", Email: "fatima@example.com", Points: 800, Badges: datatypes.JSONSlice[int]{2}, Role: models.RoleStudent, SchoolID: schoolRef("3"), Approval: models.ApprovalApproved},
	{ID: "105", Name: "Emeka A.", Email: "emeka@example.com", Points: 650, Badges: datatypes.JSONSlice[int]{1}, Role: models.RoleStudent, SchoolID: schoolRef("2"), Approval: models.ApprovalApproved},
	{ID: "106", Name: "Tunde Bakare", Email: "tunde@example.com", Points: 720, Badges: datatypes.JSONSlice[int]{1}, Role: models.RoleStudent, SchoolID: schoolRef("1"), Approval: models.ApprovalApproved},
	{ID: "107", Name: "Femi Adeoye", Email: "femi@example.com", Points: 680, Badges: datatypes.JSONSlice[int]{1}, Role: models.RoleStudent, SchoolID: schoolRef("1"), Approval: models.ApprovalApproved},
	{ID: "108", Name: "Aisha Bello", Email: "aisha@example.com", Points: 750, Badges: datatypes.JSONSlice[int]{1, 2}, Role: models.RoleStudent, SchoolID: schoolRef("2"), Approval: models.ApprovalApproved},
	{ID: "109", Name: "Funke Williams", Email: "funke@example.com", Points: 810, Badges: datatypes.JSONSlice[int]{1}, Role: models.RoleStudent, SchoolID: schoolRef("2"), Approval: models.ApprovalApproved},
	{ID: "201", Name: "Mr. Adekunle", Email: "admin@kingscollege.edu.ng", Badges: datatypes.JSONSlice[int]{}, Role: models.RoleSchoolAdmin, SchoolID: schoolRef("1")},
	{ID: "202", Name: "Mrs. Okoro", Email: "admin@queenscollege.edu.ng", Badges: datatypes.JSONSlice[int]{}, Role: models.RoleSchoolAdmin, SchoolID: schoolRef("2")},
}

// SeedDemoData loads the demo schools and users. Records that already exist
// are left untouched, so seeding is safe to repeat.
func SeedDemoData(ctx context.Context, repo Repository) error {
	for _, s := range demoSchools {
		school := s
		if err := repo.CreateSchool(ctx, &school); err != nil && !errors.Is(err, ErrConflict) {
			return fmt.Errorf("seed school %s: %w", s.ID, err)
		}
	}
	for _, u := range demoUsers {
		user := u.Clone()
		if err := repo.CreateUser(ctx, &user); err != nil && !errors.Is(err, ErrConflict) {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	log.Printf("🌱 [STORAGE] Seeded %d schools and %d users", len(demoSchools), len(demoUsers))
	return nil
}
