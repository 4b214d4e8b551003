package services

import (
	"brainer-platform/models"

	"github.com/shopspring/decimal"
)

const (
	IndividualFee int64 = 10000
	SchoolFeeBase int64 = 5000
)

const (
	MsgCodeNotForYou   = "Discount codes are for school-affiliated students only."
	MsgCodeInvalid     = "Invalid or expired discount code."
	MsgBulkCodeInvalid = "Invalid discount code provided."
)

var planMultipliers = map[models.SubscriptionPlan]decimal.Decimal{
	models.PlanFree:    decimal.NewFromInt(1),
	models.PlanBasic:   decimal.RequireFromString("0.8"),
	models.PlanPremium: decimal.RequireFromString("0.5"),
}

// Payer is who a competition fee is charged to. Plan is read only for
// school-affiliated payers.
type Payer struct {
	SchoolAffiliated bool
	Plan             models.SubscriptionPlan
}

// PayerFor resolves the payer of u given the plan of u's school (if any).
func PayerFor(u *models.User, plan models.SubscriptionPlan) Payer {
	if !u.IsSchoolAffiliated() {
		return Payer{}
	}
	return Payer{SchoolAffiliated: true, Plan: plan}
}

// PriceQuote is the priced outcome of a registration. CodeError holds the
// user-facing message when a supplied code was rejected; the fees then equal
// the undiscounted fee.
type PriceQuote struct {
	BaseFee         int64   `json:"base_fee"`
	Discount        float64 `json:"discount"`
	FinalFee        int64   `json:"final_fee"`
	StudentCount    int     `json:"student_count,omitempty"`
	CodeError       string  `json:"code_error,omitempty"`
	DisplayFinalFee string  `json:"display_final_fee,omitempty"`
}

// ComputeFee returns the per-registration fee before any discount.
func ComputeFee(p Payer) int64 {
	if !p.SchoolAffiliated {
		return IndividualFee
	}
	return schoolFee(p.Plan).IntPart()
}

func schoolFee(plan models.SubscriptionPlan) decimal.Decimal {
	mult, ok := planMultipliers[plan]
	if !ok {
		mult = decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(SchoolFeeBase).Mul(mult)
}

// ApplyDiscount returns fee × (1 − fraction), rounded to whole Naira.
func ApplyDiscount(fee int64, fraction float64) int64 {
	base := decimal.NewFromInt(fee)
	off := base.Mul(decimal.NewFromFloat(fraction))
	return base.Sub(off).Round(0).IntPart()
}

// Quote prices a single registration. A code is never applied to an
// individual payer.
func Quote(p Payer, code string) PriceQuote {
	fee := ComputeFee(p)
	q := PriceQuote{BaseFee: fee, FinalFee: fee}
	if code == "" {
		return q
	}
	if !p.SchoolAffiliated {
		q.CodeError = MsgCodeNotForYou
		return q
	}
	dc, err := DecodeDiscountCode(code)
	if err != nil {
		q.CodeError = MsgCodeInvalid
		return q
	}
	q.Discount = dc.Fraction()
	q.FinalFee = ApplyDiscount(fee, q.Discount)
	return q
}

// QuoteBulk prices a batch registration of studentCount students of one
// school. A single discount applies to the whole batch.
func QuoteBulk(plan models.SubscriptionPlan, studentCount int, code string) PriceQuote {
	total := schoolFee(plan).Mul(decimal.NewFromInt(int64(studentCount))).IntPart()
	q := PriceQuote{BaseFee: total, FinalFee: total, StudentCount: studentCount}
	if code == "" {
		return q
	}
	dc, err := DecodeDiscountCode(code)
	if err != nil {
		q.CodeError = MsgBulkCodeInvalid
		return q
	}
	q.Discount = dc.Fraction()
	q.FinalFee = ApplyDiscount(total, q.Discount)
	return q
}
