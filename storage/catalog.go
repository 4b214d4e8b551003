package storage

import (
	_ "embed"
	"fmt"

	"brainer-platform/models"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is the static list of competitions and courses.
type Catalog struct {
	Competitions []models.Competition `yaml:"competitions"`
	Courses      []models.Course      `yaml:"courses"`
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog parses a catalog document and assigns slugs.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	seen := make(map[int]bool)
	for _, comp := range c.Competitions {
		if seen[comp.ID] {
			return nil, fmt.Errorf("duplicate competition id %d", comp.ID)
		}
		seen[comp.ID] = true
	}
	seen = make(map[int]bool)
	for _, course := range c.Courses {
		if seen[course.ID] {
			return nil, fmt.Errorf("duplicate course id %d", course.ID)
		}
		seen[course.ID] = true
	}
	models.AssignSlugs(c.Competitions, c.Courses)
	return &c, nil
}

func (c *Catalog) Competition(id int) (*models.Competition, error) {
	for i := range c.Competitions {
		if c.Competitions[i].ID == id {
			return &c.Competitions[i], nil
		}
	}
	return nil, fmt.Errorf("competition %d: %w", id, ErrNotFound)
}

func (c *Catalog) CompetitionBySlug(s string) (*models.Competition, error) {
	for i := range c.Competitions {
		if c.Competitions[i].Slug == s {
			return &c.Competitions[i], nil
		}
	}
	return nil, fmt.Errorf("competition %q: %w", s, ErrNotFound)
}

func (c *Catalog) Course(id int) (*models.Course, error) {
	for i := range c.Courses {
		if c.Courses[i].ID == id {
			return &c.Courses[i], nil
		}
	}
	return nil, fmt.Errorf("course %d: %w", id, ErrNotFound)
}

func (c *Catalog) CourseBySlug(s string) (*models.Course, error) {
	for i := range c.Courses {
		if c.Courses[i].Slug == s {
			return &c.Courses[i], nil
		}
	}
	return nil, fmt.Errorf("course %q: %w", s, ErrNotFound)
}
