package services

import (
	"fmt"
	"strings"
)

const (
	// VIPPromoCode doubles the discount issued at school signup.
	VIPPromoCode = "BRAINERVIP"

	discountCodePrefix      = "SCHOOL"
	minCodeStudents         = 20
	standardDiscountPercent = 10
	vipDiscountPercent      = 20
	minDiscountPercent      = 10
	maxDiscountPercent      = 50
	schoolTagLength         = 5
)

// DiscountCode is the decoded form of SCHOOL<TAG>-<PCT>.
type DiscountCode struct {
	SchoolTag  string
	Percentage int
}

// Fraction returns the discount as a value in [0.10, 0.50].
func (d DiscountCode) Fraction() float64 {
	return float64(d.Percentage) / 100
}

func (d DiscountCode) String() string {
	return fmt.Sprintf("%s%s-%d", discountCodePrefix, d.SchoolTag, d.Percentage)
}

// EncodeDiscountCode issues the code a school receives at signup. Schools with
// fewer than 20 students get none.
func EncodeDiscountCode(schoolName string, studentCount int, promo string) (string, bool) {
	if studentCount < minCodeStudents {
		return "", false
	}
	pct := standardDiscountPercent
	if strings.EqualFold(strings.TrimSpace(promo), VIPPromoCode) {
		pct = vipDiscountPercent
	}
	return DiscountCode{SchoolTag: schoolTag(schoolName), Percentage: pct}.String(), true
}

// schoolTag keeps ASCII letters and digits only, upper-cased, at most five.
// Characters are filtered before case folding so that letters like 'ı' or 'ſ'
// are dropped rather than folded into ASCII.
func schoolTag(name string) string {
	var b strings.Builder
	for _, r := range name {
		if b.Len() == schoolTagLength {
			break
		}
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DecodeDiscountCode validates a code entered at checkout. The percentage part
// is read as a leading integer, so "SCHOOLX-15abc" decodes to 15.
func DecodeDiscountCode(code string) (DiscountCode, error) {
	parts := strings.Split(strings.ToUpper(code), "-")
	if len(parts) != 2 || !strings.HasPrefix(parts[0], discountCodePrefix) {
		return DiscountCode{}, fmt.Errorf("%q: %w", code, ErrInvalidDiscountCode)
	}
	pct, ok := leadingInt(parts[1])
	if !ok || pct < minDiscountPercent || pct > maxDiscountPercent {
		return DiscountCode{}, fmt.Errorf("%q: %w", code, ErrInvalidDiscountCode)
	}
	return DiscountCode{
		SchoolTag:  strings.TrimPrefix(parts[0], discountCodePrefix),
		Percentage: pct,
	}, nil
}

// leadingInt parses an optionally signed run of digits after leading
// whitespace and ignores whatever follows.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		if n < 1_000_000 {
			n = n*10 + int(r-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
