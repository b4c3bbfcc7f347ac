package seeder

import (
	"github.com/brianvoe/gofakeit/v6"

	"github.com/multillm/survey-stack/common/models"
)

// Generator produces survey answers shaped like the ones the web form posts.
type Generator struct {
	faker   *gofakeit.Faker
	answers AnswersConfig
}

// NewGenerator returns a generator; seed 0 picks a random seed.
func NewGenerator(seed int64, answers AnswersConfig) *Generator {
	return &Generator{
		faker:   gofakeit.New(seed),
		answers: answers,
	}
}

// Payload returns one filled-in survey.
func (g *Generator) Payload() models.Payload {
	f := g.faker
	return models.Payload{
		"name":               f.Name(),
		"modelUsed":          f.RandomString(g.answers.Models),
		"whyModel":           f.Sentence(8),
		"purpose":            f.RandomString(g.answers.Purposes),
		"satisfaction":       f.Number(1, 5),
		"satisfactionReason": f.Sentence(10),
		"emotion":            f.RandomString(g.answers.Emotions),
		"emotionReason":      f.Sentence(6),
	}
}
