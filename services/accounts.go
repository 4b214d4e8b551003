package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"path"
	"strings"

	"brainer-platform/models"
	"brainer-platform/storage"

	"github.com/google/uuid"
	"github.com/gosimple/unidecode"
)

type AccountService struct {
	Repo    storage.Repository
	Avatars LogoStore
}

func NewAccountService(repo storage.Repository, avatars LogoStore) *AccountService {
	return &AccountService{Repo: repo, Avatars: avatars}
}

// SignupResult is the outcome of a signup. Existing is set when the email
// was already registered and the call acted as a login.
type SignupResult struct {
	User         *models.User   `json:"user"`
	School       *models.School `json:"school,omitempty"`
	DiscountCode string         `json:"discount_code,omitempty"`
	Existing     bool           `json:"existing"`
}

func (s *AccountService) Signup(ctx context.Context, req models.SignupRequest) (*SignupResult, error) {
	email := normalizeEmail(req.ContactEmail())
	if email == "" {
		return nil, invalid("email", "Email is required.")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("email", "Please enter a valid email address.")
	}

	existing, err := s.Repo.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		log.Printf("👤 [ACCOUNTS] Signup for existing email %s, logging in", email)
		return &SignupResult{User: existing, Existing: true}, nil
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}

	switch r := req.(type) {
	case models.StudentSignup:
		return s.signupStudent(ctx, r, email)
	case *models.StudentSignup:
		return s.signupStudent(ctx, *r, email)
	case models.SchoolAdminSignup:
		return s.signupSchoolAdmin(ctx, r, email)
	case *models.SchoolAdminSignup:
		return s.signupSchoolAdmin(ctx, *r, email)
	default:
		return nil, invalid("role", fmt.Sprintf("Unsupported role %q.", req.Role()))
	}
}

func (s *AccountService) signupStudent(ctx context.Context, req models.StudentSignup, email string) (*SignupResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "Full name is required.")
	}
	u := &models.User{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  email,
		Role:   models.RoleStudent,
		Badges: []int{},
	}
	res := &SignupResult{User: u}
	if id := strings.TrimSpace(req.SchoolID); id != "" {
		school, err := s.Repo.GetSchool(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, invalid("school_id", "Selected school does not exist.")
			}
			return nil, err
		}
		u.SchoolID = &school.ID
		u.Approval = models.ApprovalPending
		res.School = school
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	log.Printf("✅ [ACCOUNTS] Student %s signed up (approval=%q)", u.ID, u.Approval)
	return res, nil
}

func (s *AccountService) signupSchoolAdmin(ctx context.Context, req models.SchoolAdminSignup, email string) (*SignupResult, error) {
	schoolName := strings.TrimSpace(req.SchoolName)
	contact := strings.TrimSpace(req.ContactPerson)
	if schoolName == "" {
		return nil, invalid("school_name", "School name is required.")
	}
	if contact == "" {
		return nil, invalid("contact_person", "Contact person is required.")
	}
	if req.StudentCount < 0 {
		return nil, invalid("student_count", "Student count cannot be negative.")
	}

	school := &models.School{
		ID:               uuid.NewString(),
		Name:             schoolName,
		ContactPerson:    contact,
		ContactEmail:     email,
		SubscriptionPlan: models.PlanFree,
	}
	if err := s.Repo.CreateSchool(ctx, school); err != nil {
		return nil, err
	}
	admin := &models.User{
		ID:       uuid.NewString(),
		Name:     contact,
		Email:    email,
		Role:     models.RoleSchoolAdmin,
		SchoolID: &school.ID,
		Badges:   []int{},
	}
	if err := s.Repo.CreateUser(ctx, admin); err != nil {
		if delErr := s.Repo.DeleteSchool(ctx, school.ID); delErr != nil {
			log.Printf("⚠️ [ACCOUNTS] Failed to remove school %s after admin creation failed: %v", school.ID, delErr)
		}
		return nil, err
	}

	res := &SignupResult{User: admin, School: school}
	if code, ok := EncodeDiscountCode(schoolName, req.StudentCount, req.PromoCode); ok {
		res.DiscountCode = code
	}
	log.Printf("🏫 [ACCOUNTS] School %q created with admin %s", school.Name, admin.ID)
	return res, nil
}

// Login is an unauthenticated lookup by email.
func (s *AccountService) Login(ctx context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, invalid("email", "Email is required.")
	}
	return s.Repo.FindUserByEmail(ctx, email)
}

func (s *AccountService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.GetUser(ctx, id)
}

// SearchSchools matches query against school names ignoring case and
// accents. An empty query returns every school.
func (s *AccountService) SearchSchools(ctx context.Context, query string) ([]models.School, error) {
	schools, err := s.Repo.ListSchools(ctx)
	if err != nil {
		return nil, err
	}
	needle := foldName(query)
	if needle == "" {
		return schools, nil
	}
	out := []models.School{}
	for _, sc := range schools {
		if strings.Contains(foldName(sc.Name), needle) {
			out = append(out, sc)
		}
	}
	return out, nil
}

func foldName(s string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(s)))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UploadProfilePicture stores a new avatar for the user.
func (s *AccountService) UploadProfilePicture(ctx context.Context, userID, filename, contentType string, body io.Reader) (*models.User, error) {
	if s.Avatars == nil {
		return nil, fmt.Errorf("avatar storage is not configured")
	}
	if _, err := s.Repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	ext, ok := logoExtensions[strings.ToLower(contentType)]
	if !ok {
		ext = strings.ToLower(path.Ext(filename))
	}
	if ext == "" {
		return nil, invalid("picture", "Profile picture must be an image.")
	}
	key := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), ext)
	url, err := s.Avatars.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload profile picture: %w", err)
	}
	return s.Repo.UpdateUser(ctx, userID, func(u *models.User) error {
		u.ProfilePictureURL = url
		return nil
	})
}
