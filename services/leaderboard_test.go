package services

import (
	"context"
	"testing"
)

func TestLeaderboardTop(t *testing.T) {
	ctx := context.Background()
	p := newTestPlatform(t, 0)
	lb := NewLeaderboardService(p.repo)

	top, err := lb.Top(ctx, "", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 3 {
		t.Fatalf("got %d entries", len(top))
	}
	if top[0].UserID != "101" || top[0].Rank != 1 || top[0].SchoolName != "King's College, Lagos" {
		t.Errorf("first = %+v", top[0])
	}
	if top[1].UserID != "102" || top[2].UserID != "103" {
		t.Errorf("order = %s, %s", top[1].UserID, top[2].UserID)
	}

	school2, _ := lb.Top(ctx, "2", 0)
	for _, e := range school2 {
		if e.SchoolID != "2" {
			t.Errorf("entry from school %s in school 2 board", e.SchoolID)
		}
	}
	if len(school2) != 4 {
		t.Errorf("school 2 has %d students", len(school2))
	}
}

func TestLeaderboardSharedRank(t *testing.T) {
	ctx := context.Background()
	p := newTestPlatform(t, 0)
	addIndividual(t, p.repo, "a")
	addIndividual(t, p.repo, "b")

	top, _ := NewLeaderboardService(p.repo).Top(ctx, "", 0)
	last, prev := top[len(top)-1], top[len(top)-2]
	if last.Points != 0 || prev.Points != 0 || last.Rank != prev.Rank {
		t.Errorf("tied entries = %+v / %+v", prev, last)
	}
}
