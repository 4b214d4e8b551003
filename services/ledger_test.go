package services

import (
	"context"
	"strings"
	"testing"

	"brainer-platform/models"
	"brainer-platform/storage"
)

func newTestUser(t *testing.T, repo storage.Repository, id string) {
	t.Helper()
	err := repo.CreateUser(context.Background(), &models.User{
		ID:    id,
		Name:  "User " + id,
		Email: id + "@example.com",
		Role:  models.RoleStudent,
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", id, err)
	}
}

func TestRegisterPaidIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryStore()
	ledger := NewLedger(repo)
	newTestUser(t, repo, "u1")

	first, err := ledger.RegisterPaid(ctx, "u1", 7)
	if err != nil || !first.Applied {
		t.Fatalf("first RegisterPaid = %+v, %v", first, err)
	}
	if !strings.HasPrefix(first.Registration.PaymentID, "mock_") {
		t.Errorf("payment id %q", first.Registration.PaymentID)
	}

	second, err := ledger.RegisterPaid(ctx, "u1", 7)
	if err != nil || second.Applied {
		t.Fatalf("second RegisterPaid = %+v, %v", second, err)
	}

	ids, _ := ledger.ListPaidCompetitionIDs(ctx, "u1")
	if len(ids) != 1 || ids[0] != 7 {
		t.Errorf("paid ids = %v", ids)
	}
}

func TestRegisterPaidPriorCount(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryStore()
	ledger := NewLedger(repo)
	newTestUser(t, repo, "u1")

	for i, comp := range []int{3, 1, 2} {
		res, err := ledger.RegisterPaid(ctx, "u1", comp)
		if err != nil {
			t.Fatal(err)
		}
		if res.PriorPaidCount != i {
			t.Errorf("registration #%d prior count = %d", i+1, res.PriorPaidCount)
		}
	}
	ids, _ := ledger.ListPaidCompetitionIDs(ctx, "u1")
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 2 {
		t.Errorf("insertion order lost: %v", ids)
	}
}

func TestRegisterBulkPaidPartial(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryStore()
	ledger := NewLedger(repo)
	newTestUser(t, repo, "A")
	newTestUser(t, repo, "B")

	if _, err := ledger.RegisterPaid(ctx, "A", 1); err != nil {
		t.Fatal(err)
	}

	results, err := ledger.RegisterBulkPaid(ctx, []string{"A", "B"}, 1)
	if err != nil {
		t.Fatalf("RegisterBulkPaid: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].UserID != "A" || results[0].Applied {
		t.Errorf("A = %+v", results[0])
	}
	if results[1].UserID != "B" || !results[1].Applied {
		t.Errorf("B = %+v", results[1])
	}
	if !strings.HasPrefix(results[1].Registration.PaymentID, "mock_bulk_") {
		t.Errorf("bulk payment id %q", results[1].Registration.PaymentID)
	}
}

func TestEnrollIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryStore()
	ledger := NewLedger(repo)
	newTestUser(t, repo, "u1")

	res, err := ledger.Enroll(ctx, "u1", 2)
	if err != nil || !res.Applied || res.PriorEnrollmentCount != 0 {
		t.Fatalf("first Enroll = %+v, %v", res, err)
	}
	res, err = ledger.Enroll(ctx, "u1", 2)
	if err != nil || res.Applied {
		t.Fatalf("second Enroll = %+v, %v", res, err)
	}
	res, _ = ledger.Enroll(ctx, "u1", 4)
	if res.PriorEnrollmentCount != 1 {
		t.Errorf("prior enrollment count = %d", res.PriorEnrollmentCount)
	}
	ids, _ := ledger.ListEnrolledCourseIDs(ctx, "u1")
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 4 {
		t.Errorf("course ids = %v", ids)
	}
}
