package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/readaloud/internal/domain/article"
)

// GeneratedSourceConfig represents the settings of a generated library.
type GeneratedSourceConfig struct {
	Count int    `yaml:"count" mapstructure:"count" default:"2000" validate:"gte=1,lte=100000"`
	Seed  uint64 `yaml:"seed" mapstructure:"seed" default:"1"`
}

var titlePrefixes = []string{
	"The Future of", "Understanding", "The Impact of", "A Deep Dive into",
	"Why We Should Care About", "The History of", "Innovations in", "Challenges of",
	"The Rise of", "The Fall of", "Exploring", "Debating", "The Truth About",
	"Unlocking the Secrets of", "Navigating", "The Evolution of", "Rethinking",
}

var topics = []string{
	"Artificial Intelligence", "Climate Change", "Global Economics", "Modern Art",
	"Quantum Computing", "Sustainable Energy", "Social Psychology", "Digital Privacy",
	"Space Exploration", "Genetic Engineering", "Urban Planning", "Remote Work",
	"Cryptocurrency", "Mental Health", "Ocean Conservation", "Renewable Resources",
	"Education Reform", "Cultural Heritage", "Biodiversity", "Cybersecurity",
	"Virtual Reality", "Blockchain", "Cognitive Science", "Nanotechnology",
	"Globalization", "Smart Cities", "Biohacking", "Astrophysics", "Philosophy",
	"Linguistics", "Anthropology", "Marine Biology", "Robotics",
}

var contentTemplates = []string{
	"In recent years, {topic} has become a subject of intense debate. Experts argue that its implications are far-reaching, affecting everything from our daily routines to the global economy. However, skeptics remain cautious, pointing out potential risks that have yet to be fully understood.",
	"The rapid advancement of {topic} is transforming the way we live and work. While the benefits are undeniable, such as increased efficiency and connectivity, there are also significant challenges. Privacy concerns, ethical dilemmas, and the potential for inequality are just a few of the issues that need to be addressed.",
	"Understanding {topic} is crucial for navigating the modern world. It is not just a technical or academic subject; it is a fundamental part of our society. By examining its history and current trends, we can better prepare for the future and make informed decisions.",
	"What does the future hold for {topic}? Many predict a revolution that will redefine industries and social norms. Others foresee a more gradual evolution. Regardless of the pace, one thing is certain: change is inevitable, and adaptation is key.",
	"At the heart of {topic} lies a simple question: how do we balance progress with responsibility? As we push the boundaries of what is possible, we must also consider the ethical and environmental costs. Sustainable development is not just a buzzword; it is a necessity.",
	"The intersection of {topic} and daily life is becoming increasingly visible. From the way we communicate to how we consume information, the influence is undeniable. This shift requires a new level of literacy and critical thinking from all of us.",
	"History teaches us that {topic} is not a new phenomenon, but its current velocity is unprecedented. By looking back at similar patterns in the past, we might find clues on how to manage the transition we are currently experiencing.",
}

const generatedConclusion = "In conclusion, the journey of understanding is continuous. We must remain vigilant and open-minded as new discoveries are made."

// GeneratedSource provides a deterministic pseudo-random article library.
// The article at a given index depends only on the seed and the index.
type GeneratedSource struct {
	config *GeneratedSourceConfig
}

// NewGeneratedSource creates a new GeneratedSource from its settings.
func NewGeneratedSource(settings map[string]any) (*GeneratedSource, error) {
	var config GeneratedSourceConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &config,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(settings); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	zlog.Debug().Msgf("generated source config: %+v", config)
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	return &GeneratedSource{config: &config}, nil
}

// ListArticles generates the library.
func (s *GeneratedSource) ListArticles(ctx context.Context) ([]article.Article, error) {
	articles := make([]article.Article, 0, s.config.Count)
	for i := 0; i < s.config.Count; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		articles = append(articles, generateArticle(s.config.Seed, i))
	}
	return articles, nil
}

// Name returns the source name.
func (s *GeneratedSource) Name() string {
	return "generated"
}

func generateArticle(seed uint64, index int) article.Article {
	rng := rand.New(rand.NewPCG(seed, uint64(index)))

	prefix := titlePrefixes[rng.IntN(len(titlePrefixes))]
	topic := topics[rng.IntN(len(topics))]
	category := article.Categories[rng.IntN(len(article.Categories))]
	difficulty := article.Difficulties[rng.IntN(len(article.Difficulties))]
	template := contentTemplates[rng.IntN(len(contentTemplates))]

	content := strings.Join([]string{
		strings.ReplaceAll(template, "{topic}", topic),
		strings.ReplaceAll(template, "{topic}", "this field"),
		generatedConclusion,
	}, "\n\n")

	return article.Article{
		ID:              fmt.Sprintf("generated-%d", index),
		Title:           prefix + " " + topic,
		Summary:         truncate(content, 100) + "...",
		Content:         content,
		Category:        category,
		ImageURL:        fmt.Sprintf("https://loremflickr.com/800/600/%s?lock=%d", strings.ToLower(string(category)), index),
		Difficulty:      difficulty,
		DurationMinutes: rng.IntN(10) + 2,
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
