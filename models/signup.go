package models

// SignupRequest is either a StudentSignup or a SchoolAdminSignup.
type SignupRequest interface {
	Role() Role
	ContactEmail() string
}

// StudentSignup registers a student. SchoolID is empty for individuals.
type StudentSignup struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	SchoolID string `json:"school_id,omitempty"`
}

func (StudentSignup) Role() Role             { return RoleStudent }
func (s StudentSignup) ContactEmail() string { return s.Email }

// SchoolAdminSignup registers a school together with its first admin.
type SchoolAdminSignup struct {
	SchoolName    string `json:"school_name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	StudentCount  int    `json:"student_count"`
	PromoCode     string `json:"promo_code,omitempty"`
}

func (SchoolAdminSignup) Role() Role             { return RoleSchoolAdmin }
func (s SchoolAdminSignup) ContactEmail() string { return s.Email }
