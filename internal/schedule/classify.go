package schedule

import (
	"strings"

	"termcal/internal/model"
)

// rule is a single keyword-containment classification rule.
type rule struct {
	keywords []string
	category model.Category
}

// Classifier maps event descriptions to display categories via an ordered
// rule table; the first rule with a matching keyword wins.
type Classifier struct {
	rules []rule
}

// NewClassifier builds a Classifier from the four keyword lists. Rule order
// is fixed: exam, trip, celebration, holiday.
func NewClassifier(exam, trip, celebration, holiday []string) *Classifier {
	return &Classifier{rules: []rule{
		{keywords: exam, category: model.CategoryExam},
		{keywords: trip, category: model.CategoryTrip},
		{keywords: celebration, category: model.CategoryCelebration},
		{keywords: holiday, category: model.CategoryHoliday},
	}}
}

// DefaultClassifier returns a Classifier with the stock keyword lists.
func DefaultClassifier() *Classifier {
	return NewClassifier(
		[]string{"段考"},
		[]string{"校外教學"},
		[]string{"慶生會", "同樂會", "歡送會"},
		[]string{"節日", "補假", "放假"},
	)
}

// Classify returns the category of an event description, or CategoryNone if
// no rule matches.
func (c *Classifier) Classify(desc string) model.Category {
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if kw != "" && strings.Contains(desc, kw) {
				return r.category
			}
		}
	}
	return model.CategoryNone
}
