package usecase

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"AutoBlog/internal/domain"
)

const (
	termMatchWeight   = 10
	trafficWeight     = 2
	articleWeight     = 2
	minTrafficForLog  = 1000
	defaultSelectLang = "en"
)

// ErrNoTopics is returned when there is nothing to select from.
var ErrNoTopics = errors.New("no trending topics to select from")

// SelectorPreferences drive keyword scoring.
type SelectorPreferences struct {
	RelevantTerms []string
	MinScore      float64
	// MaxTopicsToAnalyze limits scoring to the first N topics; zero scores all.
	MaxTopicsToAnalyze int
	// Language selects the case folding rules for term matching.
	Language string
}

// SelectKeyword scores each topic and returns the best one. Topics scoring
// below MinScore are only considered when none reach it. Ties keep input order.
func SelectKeyword(topics []domain.Topic, prefs SelectorPreferences) (domain.ScoredTopic, error) {
	if len(topics) == 0 {
		return domain.ScoredTopic{}, fmt.Errorf("select keyword: %w", ErrNoTopics)
	}

	if prefs.MaxTopicsToAnalyze > 0 && len(topics) > prefs.MaxTopicsToAnalyze {
		topics = topics[:prefs.MaxTopicsToAnalyze]
	}

	lower := lowerCaser(prefs.Language)
	terms := make([]string, 0, len(prefs.RelevantTerms))
	for _, term := range prefs.RelevantTerms {
		terms = append(terms, lower.String(term))
	}

	scored := make([]domain.ScoredTopic, len(topics))
	for i, topic := range topics {
		scored[i] = domain.ScoredTopic{
			Topic: topic,
			Score: scoreTopic(topic, terms, lower),
		}
	}

	eligible := make([]domain.ScoredTopic, 0, len(scored))
	for _, topic := range scored {
		if topic.Score >= prefs.MinScore {
			eligible = append(eligible, topic)
		}
	}

	if len(eligible) == 0 {
		eligible = scored
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Score > eligible[j].Score
	})

	return eligible[0], nil
}

// ScoreTopic computes the selection score of a single topic.
func ScoreTopic(topic domain.Topic, prefs SelectorPreferences) float64 {
	lower := lowerCaser(prefs.Language)
	terms := make([]string, 0, len(prefs.RelevantTerms))
	for _, term := range prefs.RelevantTerms {
		terms = append(terms, lower.String(term))
	}
	return scoreTopic(topic, terms, lower)
}

func scoreTopic(topic domain.Topic, loweredTerms []string, lower cases.Caser) float64 {
	title := lower.String(topic.Title)

	var score float64
	for _, term := range loweredTerms {
		if strings.Contains(title, term) {
			score += termMatchWeight
		}
	}

	score += trafficWeight * math.Log10(math.Max(topic.TrafficEstimate, minTrafficForLog))
	score += articleWeight * float64(len(topic.Articles))
	return score
}

func lowerCaser(lang string) cases.Caser {
	if strings.TrimSpace(lang) == "" {
		lang = defaultSelectLang
	}
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return cases.Lower(tag)
}
