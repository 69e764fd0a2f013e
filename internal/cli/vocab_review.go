package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/teacherlee/internal/learning"
)

// VocabReviewCLI asks the learner about each due card and reschedules it from the answer.
type VocabReviewCLI struct {
	store        *learning.Store
	syncer       SyncRequester
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	green        *color.Color
	red          *color.Color

	cards      []learning.VocabCard
	reviewed   int
	remembered int
}

func NewVocabReviewCLI(store *learning.Store, syncer SyncRequester, stdin io.Reader, stdout io.Writer) *VocabReviewCLI {
	return &VocabReviewCLI{
		store:        store,
		syncer:       syncer,
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		green:        color.New(color.FgGreen),
		red:          color.New(color.FgRed),
	}
}

// LoadDueCards queues the subject's due cards in review order.
func (r *VocabReviewCLI) LoadDueCards(ctx context.Context, subject string, limit int) {
	r.cards = r.store.DueVocabCards(ctx, subject, limit)
}

// GetCardCount returns the number of remaining cards
func (r *VocabReviewCLI) GetCardCount() int {
	return len(r.cards)
}

func (r *VocabReviewCLI) getNextCard() *learning.VocabCard {
	if len(r.cards) == 0 {
		return nil
	}
	return &r.cards[0]
}

func (r *VocabReviewCLI) removeCurrentCard() {
	if len(r.cards) > 0 {
		r.cards = r.cards[1:]
	}
}

func (r *VocabReviewCLI) Session(ctx context.Context) error {
	currentCard := r.getNextCard()
	if currentCard == nil {
		if r.reviewed == 0 {
			fmt.Fprintln(r.stdoutWriter, "Nothing to review right now!")
		} else {
			fmt.Fprintf(r.stdoutWriter, "Reviewed %d card(s), remembered %d.\n", r.reviewed, r.remembered)
		}
		return errEnd
	}

	fmt.Fprint(r.stdoutWriter, "Do you remember ")
	_, _ = r.bold.Fprint(r.stdoutWriter, currentCard.Word)
	fmt.Fprint(r.stdoutWriter, "? [y/n/q]: ")

	line, err := r.stdinReader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("error reading input: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	if answer == "" && errors.Is(err, io.EOF) {
		fmt.Fprintln(r.stdoutWriter)
		answer = "q"
	}

	switch answer {
	case "y", "yes":
		card, err := r.store.MarkVocabMastered(ctx, currentCard.ID)
		if err != nil {
			return fmt.Errorf("store.MarkVocabMastered() > %w", err)
		}
		r.remembered++
		_, _ = r.green.Fprintf(r.stdoutWriter, "✅ Next review in %d day(s)\n", card.ReviewIntervalDays)
	case "n", "no":
		if _, err := r.store.MarkVocabWrong(ctx, currentCard.ID); err != nil {
			return fmt.Errorf("store.MarkVocabWrong() > %w", err)
		}
		_, _ = r.red.Fprintln(r.stdoutWriter, "❌ Review it again tomorrow")
	case "q", "quit":
		r.cards = nil
		return r.Session(ctx)
	default:
		fmt.Fprintln(r.stdoutWriter, "Please answer y, n or q.")
		return nil
	}

	r.reviewed++
	r.removeCurrentCard()
	r.syncer.Request()
	return nil
}
