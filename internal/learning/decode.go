package learning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayouts are tried in order. Layouts without a zone are read in UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	time.DateOnly,
}

// parseTimestamp reads an ISO 8601 string or a number of milliseconds since the epoch.
// Anything else, including null, reads as the zero time.
func parseTimestamp(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}

	var millis float64
	if err := json.Unmarshal(raw, &millis); err == nil {
		return time.UnixMilli(int64(millis)).UTC()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// decodeEach decodes every element it can and reports how many were dropped.
func decodeEach[T any](elements []json.RawMessage) ([]T, int) {
	if elements == nil {
		return nil, 0
	}
	items := make([]T, 0, len(elements))
	dropped := 0
	for _, element := range elements {
		var item T
		if err := json.Unmarshal(element, &item); err != nil {
			dropped++
			continue
		}
		items = append(items, item)
	}
	return items, dropped
}

// decodeList decodes a JSON array element by element. A value that is not an array reads
// as an empty list.
func decodeList[T any](raw json.RawMessage) ([]T, int) {
	if len(raw) == 0 {
		return nil, 0
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, 1
	}
	return decodeEach[T](elements)
}

func (p *OnboardingPlan) UnmarshalJSON(data []byte) error {
	type plain OnboardingPlan
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"createdAt"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}
	p.CreatedAt = parseTimestamp(aux.CreatedAt)
	return nil
}

func (e *StudyEvent) UnmarshalJSON(data []byte) error {
	type plain StudyEvent
	aux := struct {
		*plain
		At json.RawMessage `json:"at"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}
	e.At = parseTimestamp(aux.At)
	return nil
}

func (c *VocabCard) UnmarshalJSON(data []byte) error {
	type plain VocabCard
	aux := struct {
		*plain
		AddedAt      json.RawMessage `json:"addedAt"`
		NextReviewAt json.RawMessage `json:"nextReviewAt"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}
	c.AddedAt = parseTimestamp(aux.AddedAt)
	c.NextReviewAt = parseTimestamp(aux.NextReviewAt)
	return nil
}

func (s *PatternScore) UnmarshalJSON(data []byte) error {
	type plain PatternScore
	aux := struct {
		*plain
		At json.RawMessage `json:"at"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}
	s.At = parseTimestamp(aux.At)
	return nil
}

// UnmarshalJSON keeps every readable part of a state. An unreadable plan reads as no
// plan and unreadable list elements are dropped.
func (s *LearningState) UnmarshalJSON(data []byte) error {
	var aux struct {
		Plan          json.RawMessage `json:"plan"`
		Events        json.RawMessage `json:"events"`
		VocabCards    json.RawMessage `json:"vocabCards"`
		PatternScores json.RawMessage `json:"patternScores"`
		UpdatedAt     json.RawMessage `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}

	var plan *OnboardingPlan
	if len(aux.Plan) > 0 {
		if err := json.Unmarshal(aux.Plan, &plan); err != nil {
			plan = nil
		}
	}
	*s = LearningState{
		Plan:      plan,
		UpdatedAt: parseTimestamp(aux.UpdatedAt),
	}
	s.Events, _ = decodeList[StudyEvent](aux.Events)
	s.VocabCards, _ = decodeList[VocabCard](aux.VocabCards)
	s.PatternScores, _ = decodeList[PatternScore](aux.PatternScores)
	return nil
}
