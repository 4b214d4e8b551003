package services

import (
	"context"
	"sort"

	"brainer-platform/models"
	"brainer-platform/storage"
)

// LeaderboardEntry is one ranked student.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Points     int64  `json:"points"`
	BadgeCount int    `json:"badge_count"`
	SchoolID   string `json:"school_id,omitempty"`
	SchoolName string `json:"school_name,omitempty"`
	PictureURL string `json:"profile_picture_url,omitempty"`
}

type LeaderboardService struct {
	Repo storage.Repository
}

func NewLeaderboardService(repo storage.Repository) *LeaderboardService {
	return &LeaderboardService{Repo: repo}
}

// Top ranks students by points, highest first. Equal points share a rank.
// schoolID narrows the board to one school; limit <= 0 means no limit.
func (s *LeaderboardService) Top(ctx context.Context, schoolID string, limit int) ([]LeaderboardEntry, error) {
	students, err := s.Repo.ListUsers(ctx, storage.UserFilter{Role: models.RoleStudent, SchoolID: schoolID})
	if err != nil {
		return nil, err
	}
	schools, err := s.Repo.ListSchools(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(schools))
	for _, sc := range schools {
		names[sc.ID] = sc.Name
	}

	sort.SliceStable(students, func(i, j int) bool { return students[i].Points > students[j].Points })
	if limit > 0 && len(students) > limit {
		students = students[:limit]
	}

	out := make([]LeaderboardEntry, len(students))
	for i, u := range students {
		rank := i + 1
		if i > 0 && u.Points == students[i-1].Points {
			rank = out[i-1].Rank
		}
		e := LeaderboardEntry{
			Rank:       rank,
			UserID:     u.ID,
			Name:       u.Name,
			Points:     u.Points,
			BadgeCount: len(u.Badges),
			PictureURL: u.ProfilePictureURL,
		}
		if u.SchoolID != nil {
			e.SchoolID = *u.SchoolID
			e.SchoolName = names[*u.SchoolID]
		}
		out[i] = e
	}
	return out, nil
}
