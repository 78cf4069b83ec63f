// Package article provides the Article domain entity.
package article

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Difficulty represents the reading level of an article.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties lists every valid difficulty, easiest first.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Category represents the subject area of an article.
type Category string

const (
	CategoryScience     Category = "Science"
	CategoryCulture     Category = "Culture"
	CategoryTechnology  Category = "Technology"
	CategoryEnvironment Category = "Environment"
	CategoryEconomy     Category = "Economy"
	CategoryHealth      Category = "Health"
	CategoryEducation   Category = "Education"
	CategoryArt         Category = "Art"
	CategoryHistory     Category = "History"
	CategoryPsychology  Category = "Psychology"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryScience, CategoryCulture, CategoryTechnology, CategoryEnvironment, CategoryEconomy,
	CategoryHealth, CategoryEducation, CategoryArt, CategoryHistory, CategoryPsychology,
}

var (
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrMissingID         = errors.New("article id is required")
	ErrMissingTitle      = errors.New("article title is required")
)

// Article represents a readable article that can be narrated.
type Article struct {
	ID              string     // Opaque unique ID
	Title           string     // Display title
	Summary         string     // Short teaser
	Content         string     // Narration text
	Category        Category   // Subject area
	ImageURL        string     // Cover image URL
	Difficulty      Difficulty // Reading level
	DurationMinutes int        // Estimated reading time
}

// ParseDifficulty parses a difficulty name case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(string(d), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidDifficulty, "%q", s)
}

// ParseCategory parses a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidCategory, "%q", s)
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	for _, v := range Difficulties {
		if v == d {
			return true
		}
	}
	return false
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Validate checks the fields required at the catalog boundary.
// Empty content is allowed: it narrates as a zero-length utterance.
func (a *Article) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(a.Title) == "" {
		return errors.Wrapf(ErrMissingTitle, "article %s", a.ID)
	}
	if !a.Difficulty.Valid() {
		return errors.Wrapf(ErrInvalidDifficulty, "article %s: %q", a.ID, a.Difficulty)
	}
	if !a.Category.Valid() {
		return errors.Wrapf(ErrInvalidCategory, "article %s: %q", a.ID, a.Category)
	}
	return nil
}

// WordCount returns the number of whitespace-separated words in the content.
func (a *Article) WordCount() int {
	return len(strings.Fields(a.Content))
}
