package learning

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultDueCardLimit = 8
	maxReviewInterval   = 30
	day                 = 24 * time.Hour
)

var (
	ErrEmptyWord     = errors.New("word is empty")
	ErrDuplicateWord = errors.New("word is already in the vocabulary")
	ErrCardNotFound  = errors.New("vocab card not found")
)

// AddVocabWord creates a card for word in subject, due immediately. Cards are appended so
// the newest card survives the MaxVocabCards cap.
func (s *Store) AddVocabWord(ctx context.Context, subject, word string) (*VocabCard, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrEmptyWord
	}

	now := s.now()
	card := VocabCard{
		ID:                 uuid.NewString(),
		Word:               word,
		Subject:            subject,
		AddedAt:            now,
		Mastered:           false,
		WrongCount:         0,
		ReviewIntervalDays: 1,
		NextReviewAt:       now,
	}
	if err := s.updateVocabCards(ctx, func(cards []VocabCard) ([]VocabCard, error) {
		for _, c := range cards {
			if c.Word == word && c.Subject == subject {
				return nil, fmt.Errorf("%s (%s): %w", word, subject, ErrDuplicateWord)
			}
		}
		return append(cards, card), nil
	}); err != nil {
		return nil, err
	}
	return &card, nil
}

// MarkVocabMastered doubles the card's review interval, up to 30 days, and schedules the
// next review after it.
func (s *Store) MarkVocabMastered(ctx context.Context, id string) (*VocabCard, error) {
	now := s.now()
	return s.updateVocabCard(ctx, id, func(c *VocabCard) {
		interval := min(maxReviewInterval, c.ReviewIntervalDays*2)
		c.Mastered = true
		c.ReviewIntervalDays = interval
		c.NextReviewAt = now.Add(time.Duration(interval) * day)
	})
}

// MarkVocabWrong counts a wrong answer and schedules the card again for tomorrow.
func (s *Store) MarkVocabWrong(ctx context.Context, id string) (*VocabCard, error) {
	now := s.now()
	return s.updateVocabCard(ctx, id, func(c *VocabCard) {
		c.Mastered = false
		c.WrongCount++
		c.ReviewIntervalDays = 1
		c.NextReviewAt = now.Add(day)
	})
}

// DueVocabCards returns the subject's cards whose review is due, the most often missed
// first and then the longest overdue. limit <= 0 uses DefaultDueCardLimit.
func (s *Store) DueVocabCards(ctx context.Context, subject string, limit int) []VocabCard {
	if limit <= 0 {
		limit = DefaultDueCardLimit
	}
	now := s.now()

	var due []VocabCard
	for _, c := range s.VocabCards(ctx) {
		if c.Subject == subject && !c.NextReviewAt.After(now) {
			due = append(due, c)
		}
	}
	slices.SortStableFunc(due, func(a, b VocabCard) int {
		if c := cmp.Compare(b.WrongCount, a.WrongCount); c != 0 {
			return c
		}
		return a.NextReviewAt.Compare(b.NextReviewAt)
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due
}

func (s *Store) updateVocabCard(ctx context.Context, id string, fn func(*VocabCard)) (*VocabCard, error) {
	var updated VocabCard
	if err := s.updateVocabCards(ctx, func(cards []VocabCard) ([]VocabCard, error) {
		i := slices.IndexFunc(cards, func(c VocabCard) bool { return c.ID == id })
		if i < 0 {
			return nil, fmt.Errorf("%s: %w", id, ErrCardNotFound)
		}
		fn(&cards[i])
		updated = cards[i]
		return cards, nil
	}); err != nil {
		return nil, err
	}
	return &updated, nil
}

// updateVocabCards stores the result of fn applied to the current cards. Without local
// storage fn is not called.
func (s *Store) updateVocabCards(ctx context.Context, fn func([]VocabCard) ([]VocabCard, error)) error {
	if s.kv == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.VocabCards(ctx))
	if err != nil {
		return err
	}
	return s.SetVocabCards(ctx, next)
}
