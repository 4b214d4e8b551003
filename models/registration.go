package models

import "time"

type RegistrationStatus string

const (
	RegistrationPendingPayment RegistrationStatus = "pending_payment"
	RegistrationPaid           RegistrationStatus = "paid" // terminal
)

// Registration links a user to a competition. Rows for a user are kept in
// insertion order (Seq), which is also chronological order.
type Registration struct {
	ID            string             `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string             `gorm:"index;not null" json:"user_id"`
	CompetitionID int                `gorm:"index;not null" json:"competition_id"`
	Status        RegistrationStatus `gorm:"type:varchar(16);not null" json:"status"`
	PaymentID     string             `json:"payment_id,omitempty"`
	PaidAt        *time.Time         `json:"paid_at,omitempty"`
	Seq           int64              `gorm:"index" json:"-"`
	CreatedAt     time.Time          `json:"created_at" gorm:"autoCreateTime"`
}

// Enrollment links a user to a course. No payment is involved.
type Enrollment struct {
	UserID    string    `gorm:"primaryKey" json:"user_id"`
	CourseID  int       `gorm:"primaryKey;autoIncrement:false" json:"course_id"`
	Seq       int64     `gorm:"index" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
