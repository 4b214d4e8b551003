package utils

import (
	"context"
	"strings"
	"testing"
)

func TestFormatNaira(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "₦0"},
		{2500, "₦2,500"},
		{10000, "₦10,000"},
		{1000000, "₦1,000,000"},
		{-4500, "-₦4,500"},
	}
	for _, tc := range cases {
		if got := FormatNaira(tc.in); got != tc.want {
			t.Errorf("FormatNaira(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDataURLStore(t *testing.T) {
	url, err := DataURLStore{}.Upload(context.Background(), "logos/x.png", "image/png", strings.NewReader("abc"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "data:image/png;base64,YWJj" {
		t.Errorf("unexpected url %q", url)
	}

	big := strings.NewReader(strings.Repeat("x", MaxInlineImageBytes+1))
	if _, err := (DataURLStore{}).Upload(context.Background(), "k", "image/png", big); err == nil {
		t.Error("expected size error")
	}
}
