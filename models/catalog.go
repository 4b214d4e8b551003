package models

import "github.com/gosimple/slug"

type CompetitionFormat string

const (
	FormatIndividual  CompetitionFormat = "individual"
	FormatTeamBased   CompetitionFormat = "team-based"
	FormatInterSchool CompetitionFormat = "inter-school"
)

type Competition struct {
	ID          int               `yaml:"id" json:"id"`
	Slug        string            `yaml:"-" json:"slug"`
	Title       string            `yaml:"title" json:"title"`
	Category    string            `yaml:"category" json:"category"`
	Format      CompetitionFormat `yaml:"format" json:"format"`
	Date        string            `yaml:"date" json:"date"`
	Deadline    string            `yaml:"deadline" json:"deadline"`
	Description string            `yaml:"description" json:"description"`
	Eligibility string            `yaml:"eligibility" json:"eligibility"`
	Prizes      []string          `yaml:"prizes" json:"prizes"`
	Region      string            `yaml:"region" json:"region,omitempty"`
}

type CourseModule struct {
	Title   string `yaml:"title" json:"title"`
	Content string `yaml:"content" json:"content"`
}

type Course struct {
	ID          int            `yaml:"id" json:"id"`
	Slug        string         `yaml:"-" json:"slug"`
	Title       string         `yaml:"title" json:"title"`
	Category    string         `yaml:"category" json:"category"`
	Instructor  string         `yaml:"instructor" json:"instructor"`
	Duration    string         `yaml:"duration" json:"duration"`
	Description string         `yaml:"description" json:"description"`
	Modules     []CourseModule `yaml:"modules" json:"modules"`
}

// AssignSlugs fills Slug from Title for every catalog entry.
func AssignSlugs(competitions []Competition, courses []Course) {
	for i := range competitions {
		competitions[i].Slug = slug.Make(competitions[i].Title)
	}
	for i := range courses {
		courses[i].Slug = slug.Make(courses[i].Title)
	}
}
