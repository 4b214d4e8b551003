package models

import "time"

// SubscriptionPlan is a school's billing tier, ordered by discount generosity.
type SubscriptionPlan string

const (
	PlanFree    SubscriptionPlan = "Free"
	PlanBasic   SubscriptionPlan = "Basic"
	PlanPremium SubscriptionPlan = "Premium"
)

// Rank orders plans: Free < Basic < Premium. Unknown plans rank as Free.
func (p SubscriptionPlan) Rank() int {
	switch p {
	case PlanBasic:
		return 1
	case PlanPremium:
		return 2
	default:
		return 0
	}
}

// Valid reports whether p is one of the known plans.
func (p SubscriptionPlan) Valid() bool {
	return p == PlanFree || p == PlanBasic || p == PlanPremium
}

// StudentLimit is the number of approved students the plan allows; 0 means unlimited.
func (p SubscriptionPlan) StudentLimit() int {
	switch p {
	case PlanBasic:
		return 200
	case PlanPremium:
		return 0
	default:
		return 50
	}
}

// School is the billing/affiliation unit for students.
type School struct {
	ID               string           `gorm:"primaryKey" json:"id"`
	Name             string           `gorm:"not null" json:"name"`
	Address          string           `json:"address"`
	ContactPerson    string           `json:"contact_person"`
	ContactEmail     string           `json:"contact_email"`
	SubscriptionPlan SubscriptionPlan `gorm:"type:varchar(16);default:'Free'" json:"subscription_plan"`
	LogoURL          string           `gorm:"type:text" json:"logo_url,omitempty"`
	CreatedAt        time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}
