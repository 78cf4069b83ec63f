package filter

import (
	"context"

	"github.com/osa030/readaloud/internal/domain/article"
)

// DifficultyConfig represents the configuration for DifficultyFilter.
type DifficultyConfig struct {
	Allowed []string `yaml:"allowed" mapstructure:"allowed" validate:"required,min=1"`
}

// DifficultyFilter keeps articles of the allowed difficulties.
type DifficultyFilter struct {
	allowed map[article.Difficulty]bool
}

// NewDifficultyFilter creates a filter allowing the given difficulties.
// With no difficulties every article is accepted.
func NewDifficultyFilter(levels ...article.Difficulty) *DifficultyFilter {
	f := &DifficultyFilter{}
	if len(levels) > 0 {
		f.allowed = make(map[article.Difficulty]bool, len(levels))
		for _, d := range levels {
			f.allowed[d] = true
		}
	}
	return f
}

func (f *DifficultyFilter) Name() string {
	return "difficulty_filter"
}

func (f *DifficultyFilter) Description() string {
	return "Keeps articles of the allowed difficulty levels"
}

func (f *DifficultyFilter) ReturnCodes() []string {
	return []string{"difficulty_not_allowed"}
}

func (f *DifficultyFilter) ValidateConfig(settings map[string]any) error {
	var config DifficultyConfig
	if err := decodeSettings(settings, &config); err != nil {
		return err
	}

	levels := make([]article.Difficulty, 0, len(config.Allowed))
	for _, s := range config.Allowed {
		d, err := article.ParseDifficulty(s)
		if err != nil {
			return err
		}
		levels = append(levels, d)
	}
	*f = *NewDifficultyFilter(levels...)
	return nil
}

func (f *DifficultyFilter) Check(ctx context.Context, a article.Article) Result {
	if f.allowed == nil || f.allowed[a.Difficulty] {
		return Accept()
	}
	return Reject("difficulty_not_allowed")
}

func init() {
	Register("difficulty_filter", func() Filter {
		return &DifficultyFilter{}
	})
}
