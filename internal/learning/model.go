// Package learning keeps the learner's onboarding plan, study events, vocabulary cards
// and pattern scores in local storage and reconciles them with the copy kept in the
// identity provider's user metadata.
package learning

import (
	"time"
)

type SubjectType string

const (
	SubjectTypeLanguage    SubjectType = "language"
	SubjectTypeProgramming SubjectType = "programming"
)

// OnboardingPlanSubject is one subject the learner picked during onboarding.
type OnboardingPlanSubject struct {
	ID    string      `json:"id" yaml:"id" validate:"required"`
	Type  SubjectType `json:"type" yaml:"type" validate:"oneof=language programming"`
	Title string      `json:"title" yaml:"title" validate:"required"`
	Icon  string      `json:"icon" yaml:"icon"`
	Level string      `json:"level" yaml:"level"`
}

// OnboardingPlan is replaced as a whole whenever it changes.
type OnboardingPlan struct {
	Subjects  []OnboardingPlanSubject `json:"subjects" yaml:"subjects" validate:"dive"`
	Goals     []string                `json:"goals" yaml:"goals"`
	CreatedAt time.Time               `json:"createdAt" yaml:"created_at"`
}

// SubjectIDs returns the ids of the plan's subjects in order.
func (p *OnboardingPlan) SubjectIDs() []string {
	if p == nil {
		return nil
	}
	ids := make([]string, 0, len(p.Subjects))
	for _, s := range p.Subjects {
		ids = append(ids, s.ID)
	}
	return ids
}

type EventKind string

const (
	EventKindChat EventKind = "chat"
	EventKindCode EventKind = "code"
	EventKindExam EventKind = "exam"
)

// StudyEvent records that a learning activity happened. Events are never edited.
// Meta values are strings, numbers or booleans.
type StudyEvent struct {
	Kind    EventKind      `json:"kind" validate:"oneof=chat code exam"`
	Subject string         `json:"subject" validate:"required"`
	At      time.Time      `json:"at" validate:"required"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// VocabCard is a spaced-repetition card for a single word.
type VocabCard struct {
	ID                 string    `json:"id" validate:"required"`
	Word               string    `json:"word" validate:"required"`
	Subject            string    `json:"subject" validate:"required"`
	AddedAt            time.Time `json:"addedAt"`
	Mastered           bool      `json:"mastered"`
	WrongCount         int       `json:"wrongCount" validate:"gte=0"`
	ReviewIntervalDays int       `json:"reviewIntervalDays" validate:"gte=0"`
	NextReviewAt       time.Time `json:"nextReviewAt"`
}

// PatternRubric breaks a pattern score down by criterion.
type PatternRubric struct {
	Grammar    int `json:"grammar" validate:"gte=0,lte=100"`
	Fluency    int `json:"fluency" validate:"gte=0,lte=100"`
	Vocabulary int `json:"vocabulary" validate:"gte=0,lte=100"`
}

// PatternScore is the graded result of one sentence-pattern exercise.
type PatternScore struct {
	ID       string         `json:"id" validate:"required"`
	Pattern  string         `json:"pattern" validate:"required"`
	Text     string         `json:"text"`
	Score    int            `json:"score" validate:"gte=0,lte=100"`
	Feedback string         `json:"feedback"`
	Rubric   *PatternRubric `json:"rubric,omitempty"`
	At       time.Time      `json:"at"`
}

// LearningState is the unit synchronized between local storage and the cloud.
type LearningState struct {
	Plan          *OnboardingPlan `json:"plan"`
	Events        []StudyEvent    `json:"events"`
	VocabCards    []VocabCard     `json:"vocabCards"`
	PatternScores []PatternScore  `json:"patternScores"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
