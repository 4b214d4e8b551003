package models

// Badge is a static catalog entry; awards live in User.Badges.
type Badge struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

const (
	BadgeFirstSteps      = 1
	BadgeEagerLearner    = 2
	BadgeCompetitor      = 3
	BadgeKnowledgeSeeker = 4
	BadgeBrainiac        = 5
)

var Badges = []Badge{
	{ID: BadgeFirstSteps, Name: "First Steps", Description: "Registered for your first competition!", Icon: "👣"},
	{ID: BadgeEagerLearner, Name: "Eager Learner", Description: "Enrolled in your first course!", Icon: "🎓"},
	{ID: BadgeCompetitor, Name: "Competitor", Description: "Registered for 3 competitions.", Icon: "🏆"},
	{ID: BadgeKnowledgeSeeker, Name: "Knowledge Seeker", Description: "Enrolled in 3 courses.", Icon: "📚"},
	{ID: BadgeBrainiac, Name: "Brainiac", Description: "Earned over 1000 points!", Icon: "🧠"},
}

// BadgeByID looks up a catalog badge.
func BadgeByID(id int) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
