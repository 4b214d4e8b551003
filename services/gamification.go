package services

import (
	"context"
	"fmt"
	"log"

	"brainer-platform/models"
	"brainer-platform/storage"
)

const (
	RegistrationPoints int64 = 50
	EnrollmentPoints   int64 = 25
	BrainiacThreshold  int64 = 1000
)

// RegistrationApplied is emitted once per newly recorded paid registration.
type RegistrationApplied struct {
	UserID         string
	CompetitionID  int
	PriorPaidCount int
}

// EnrollmentApplied is emitted once per new enrollment.
type EnrollmentApplied struct {
	UserID               string
	CourseID             int
	PriorEnrollmentCount int
}

// Progress is the user after an award plus what changed.
type Progress struct {
	User          *models.User   `json:"user"`
	PointsAwarded int64          `json:"points_awarded"`
	NewBadges     []models.Badge `json:"new_badges,omitempty"`
}

// AwardBadge adds badgeID to the user. The bool is false when the user
// already held it.
func AwardBadge(u models.User, badgeID int) (models.User, bool) {
	if u.HasBadge(badgeID) {
		return u, false
	}
	out := u.Clone()
	out.Badges = append(out.Badges, badgeID)
	return out, true
}

// AwardPoints adds a non-negative amount to the user's points.
func AwardPoints(u models.User, amount int64) models.User {
	if amount <= 0 {
		return u
	}
	out := u.Clone()
	out.Points += amount
	return out
}

type GamificationService struct {
	Users storage.UserStore
}

func NewGamificationService(users storage.UserStore) *GamificationService {
	return &GamificationService{Users: users}
}

func (s *GamificationService) OnRegistrationApplied(ctx context.Context, ev RegistrationApplied) (*Progress, error) {
	var badges []int
	switch ev.PriorPaidCount {
	case 0:
		badges = append(badges, models.BadgeFirstSteps)
	case 2:
		badges = append(badges, models.BadgeCompetitor)
	}
	return s.apply(ctx, ev.UserID, RegistrationPoints, badges)
}

func (s *GamificationService) OnEnrollmentApplied(ctx context.Context, ev EnrollmentApplied) (*Progress, error) {
	var badges []int
	switch ev.PriorEnrollmentCount {
	case 0:
		badges = append(badges, models.BadgeEagerLearner)
	case 2:
		badges = append(badges, models.BadgeKnowledgeSeeker)
	}
	return s.apply(ctx, ev.UserID, EnrollmentPoints, badges)
}

func (s *GamificationService) apply(ctx context.Context, userID string, points int64, badges []int) (*Progress, error) {
	var unlocked []int
	updated, err := s.Users.UpdateUser(ctx, userID, func(u *models.User) error {
		unlocked = unlocked[:0]
		next := AwardPoints(*u, points)
		if next.Points > BrainiacThreshold {
			badges = appendUnique(badges, models.BadgeBrainiac)
		}
		for _, id := range badges {
			var ok bool
			if next, ok = AwardBadge(next, id); ok {
				unlocked = append(unlocked, id)
			}
		}
		*u = next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("award progress to %s: %w", userID, err)
	}

	p := &Progress{User: updated, PointsAwarded: points}
	for _, id := range unlocked {
		if b, ok := models.BadgeByID(id); ok {
			p.NewBadges = append(p.NewBadges, b)
			log.Printf("🎖️ [GAMIFICATION] Badge awarded: %s → %s", b.Name, userID)
		}
	}
	return p, nil
}

func appendUnique(ids []int, id int) []int {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
