package services

import "testing"

func TestNotificationHubCursor(t *testing.T) {
	h := NewNotificationHub(3)
	first := h.Publish("u1", NotifyBadge, "success", "a")
	h.Publish("u2", NotifyBadge, "success", "other user")
	h.Publish("u1", NotifyBadge, "success", "b")

	got := h.Since("u1", first.Seq)
	if len(got) != 1 || got[0].Message != "b" {
		t.Fatalf("Since = %+v", got)
	}
	if h.Latest("u1") != got[0].Seq {
		t.Errorf("Latest = %d", h.Latest("u1"))
	}
	if h.Latest("nobody") != 0 {
		t.Error("Latest for unknown user should be 0")
	}
}

func TestNotificationHubBacklog(t *testing.T) {
	h := NewNotificationHub(2)
	for _, m := range []string{"1", "2", "3"} {
		h.Publish("u1", NotifyPlan, "success", m)
	}
	got := h.Since("u1", 0)
	if len(got) != 2 || got[0].Message != "2" || got[1].Message != "3" {
		t.Errorf("backlog = %+v", got)
	}
}
