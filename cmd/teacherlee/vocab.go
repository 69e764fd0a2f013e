package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/teacherlee/internal/cli"
	"github.com/at-ishikawa/teacherlee/internal/learning"
)

func newVocabCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Manage vocabulary cards",
	}
	cmd.AddCommand(
		newVocabAddCommand(),
		newVocabMasterCommand(),
		newVocabWrongCommand(),
		newVocabListCommand(),
		newVocabDueCommand(),
		newVocabReviewCommand(),
	)
	return cmd
}

func newVocabAddCommand() *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "add <word>",
		Short: "Add a word to review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if subject == "" {
				return fmt.Errorf("--subject is required")
			}
			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				card, err := session.store.AddVocabWord(cmd.Context(), subject, args[0])
				if errors.Is(err, learning.ErrDuplicateWord) {
					_, _ = color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "%s is already in your %s vocabulary\n", args[0], subject)
					return nil
				}
				if err != nil {
					return fmt.Errorf("store.AddVocabWord() > %w", err)
				}
				session.syncer.Request()
				_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", card.Word, card.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Subject id the word belongs to")
	return cmd
}

func newVocabMasterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "master <card id>",
		Short: "Mark a card as remembered and push its next review out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				card, err := session.store.MarkVocabMastered(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("store.MarkVocabMastered() > %w", err)
				}
				session.syncer.Request()
				printCard(cmd.OutOrStdout(), *card)
				return nil
			})
		},
	}
}

func newVocabWrongCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "wrong <card id>",
		Short: "Mark a card as missed and review it again tomorrow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				card, err := session.store.MarkVocabWrong(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("store.MarkVocabWrong() > %w", err)
				}
				session.syncer.Request()
				printCard(cmd.OutOrStdout(), *card)
				return nil
			})
		},
	}
}

func newVocabListCommand() *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vocabulary cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				var cards []learning.VocabCard
				for _, c := range session.store.VocabCards(cmd.Context()) {
					if subject == "" || c.Subject == subject {
						cards = append(cards, c)
					}
				}
				printCards(cmd.OutOrStdout(), cards, "No vocabulary cards yet.")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Only list cards of this subject")
	return cmd
}

func newVocabDueCommand() *cobra.Command {
	var subject string
	var limit int

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List the cards due for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			if subject == "" {
				return fmt.Errorf("--subject is required")
			}
			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				cards := session.store.DueVocabCards(cmd.Context(), subject, limit)
				printCards(cmd.OutOrStdout(), cards, "Nothing to review right now.")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Subject id to review")
	cmd.Flags().IntVar(&limit, "limit", learning.DefaultDueCardLimit, "Maximum number of cards")
	return cmd
}

func newVocabReviewCommand() *cobra.Command {
	var subject string
	var limit int

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review due cards interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if subject == "" {
				return fmt.Errorf("--subject is required")
			}
			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				review := cli.NewVocabReviewCLI(session.store, session.syncer, cmd.InOrStdin(), cmd.OutOrStdout())
				review.LoadDueCards(cmd.Context(), subject, limit)
				return cli.Run(cmd.Context(), review)
			})
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Subject id to review")
	cmd.Flags().IntVar(&limit, "limit", learning.DefaultDueCardLimit, "Maximum number of cards")
	return cmd
}

func printCards(out io.Writer, cards []learning.VocabCard, empty string) {
	if len(cards) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	for _, c := range cards {
		printCard(out, c)
	}
}

func printCard(out io.Writer, card learning.VocabCard) {
	status := color.RedString("learning")
	if card.Mastered {
		status = color.GreenString("mastered")
	}
	fmt.Fprintf(out, "%s  %s [%s] %s, missed %d, next review %s\n",
		card.ID,
		color.New(color.Bold).Sprint(card.Word),
		card.Subject,
		status,
		card.WrongCount,
		card.NextReviewAt.Local().Format("2006-01-02"),
	)
}
