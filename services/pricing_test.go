package services

import (
	"errors"
	"testing"

	"brainer-platform/models"
)

func TestComputeFee(t *testing.T) {
	cases := []struct {
		name  string
		payer Payer
		want  int64
	}{
		{"individual", Payer{}, 10000},
		{"individual ignores plan", Payer{Plan: models.PlanPremium}, 10000},
		{"school free", Payer{SchoolAffiliated: true, Plan: models.PlanFree}, 5000},
		{"school basic", Payer{SchoolAffiliated: true, Plan: models.PlanBasic}, 4000},
		{"school premium", Payer{SchoolAffiliated: true, Plan: models.PlanPremium}, 2500},
		{"school unknown plan", Payer{SchoolAffiliated: true, Plan: "Gold"}, 5000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeFee(tc.payer); got != tc.want {
				t.Errorf("ComputeFee = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestApplyDiscount(t *testing.T) {
	if got := ApplyDiscount(10000, 0.1); got != 9000 {
		t.Errorf("10%% off 10000 = %d", got)
	}
	if got := ApplyDiscount(2500, 0.25); got != 1875 {
		t.Errorf("25%% off 2500 = %d", got)
	}
	if got := ApplyDiscount(4000, 0); got != 4000 {
		t.Errorf("no discount = %d", got)
	}
}

func TestQuoteIndividualIgnoresSchoolCode(t *testing.T) {
	q := Quote(Payer{}, "SCHOOLABCDE-10")
	if q.FinalFee != 10000 || q.Discount != 0 {
		t.Fatalf("individual was discounted: %+v", q)
	}
	if q.CodeError != MsgCodeNotForYou {
		t.Errorf("CodeError = %q", q.CodeError)
	}
}

func TestQuoteSchoolCodes(t *testing.T) {
	payer := Payer{SchoolAffiliated: true, Plan: models.PlanBasic}

	q := Quote(payer, "schoolkings-20")
	if q.FinalFee != 3200 || q.CodeError != "" {
		t.Errorf("valid code: %+v", q)
	}

	q = Quote(payer, "SCHOOLKINGS-60")
	if q.FinalFee != 4000 || q.CodeError != MsgCodeInvalid {
		t.Errorf("invalid code: %+v", q)
	}

	q = Quote(payer, "")
	if q.FinalFee != 4000 || q.CodeError != "" {
		t.Errorf("no code: %+v", q)
	}
}

func TestQuoteBulk(t *testing.T) {
	q := QuoteBulk(models.PlanPremium, 4, "SCHOOLKINGS-10")
	if q.BaseFee != 10000 || q.FinalFee != 9000 || q.StudentCount != 4 {
		t.Errorf("bulk quote: %+v", q)
	}

	q = QuoteBulk(models.PlanPremium, 4, "BOGUS")
	if q.FinalFee != 10000 || q.CodeError != MsgBulkCodeInvalid {
		t.Errorf("bulk invalid code: %+v", q)
	}
}

func TestDecodeDiscountCode(t *testing.T) {
	cases := []struct {
		code string
		pct  int
		ok   bool
	}{
		{"SCHOOLABCDE-25", 25, true},
		{"schoolabcde-10", 10, true},
		{"SCHOOL-50", 50, true},
		{"SCHOOLABCDE-15abc", 15, true},
		{"SCHOOLABCDE-5", 0, false},
		{"SCHOOLABCDE-60", 0, false},
		{"FOO-20", 0, false},
		{"SCHOOLABCDE25", 0, false},
		{"SCHOOLA-B-20", 0, false},
		{"SCHOOLABCDE-", 0, false},
		{"SCHOOLABCDE-x20", 0, false},
	}
	for _, tc := range cases {
		dc, err := DecodeDiscountCode(tc.code)
		if tc.ok {
			if err != nil || dc.Percentage != tc.pct {
				t.Errorf("decode(%q) = %+v, %v; want %d", tc.code, dc, err, tc.pct)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidDiscountCode) {
			t.Errorf("decode(%q) should be invalid, got %+v", tc.code, dc)
		}
	}
}

func TestEncodeDiscountCode(t *testing.T) {
	if code, ok := EncodeDiscountCode("Tiny School", 19, ""); ok {
		t.Errorf("below threshold got %q", code)
	}
	if code, _ := EncodeDiscountCode("King's College", 20, ""); code != "SCHOOLKINGS-10" {
		t.Errorf("standard code = %q", code)
	}
	if code, _ := EncodeDiscountCode("King's College", 20, "brainervip"); code != "SCHOOLKINGS-20" {
		t.Errorf("vip code = %q", code)
	}
	if code, _ := EncodeDiscountCode("Ébène 1 School", 30, "other"); code != "SCHOOLBNE1S-10" {
		t.Errorf("non-ascii code = %q", code)
	}
	if code, _ := EncodeDiscountCode("ıstanbul ſchool", 20, ""); code != "SCHOOLSTANB-10" {
		t.Errorf("dotless i and long s code = %q", code)
	}

	code, _ := EncodeDiscountCode("Queen's College", 25, "")
	dc, err := DecodeDiscountCode(code)
	if err != nil || dc.Percentage != 10 || dc.SchoolTag != "QUEEN" {
		t.Errorf("round trip of %q = %+v, %v", code, dc, err)
	}
}
