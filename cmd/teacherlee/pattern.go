package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/teacherlee/internal/learning"
)

const rubricNotSet = -1

func newPatternCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pattern",
		Short: "Record and list sentence pattern scores",
	}
	cmd.AddCommand(newPatternAddCommand(), newPatternListCommand())
	return cmd
}

func newPatternAddCommand() *cobra.Command {
	var score learning.PatternScore
	var grammar, fluency, vocabulary int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record the score of a pattern exercise",
		RunE: func(cmd *cobra.Command, args []string) error {
			if grammar != rubricNotSet || fluency != rubricNotSet || vocabulary != rubricNotSet {
				score.Rubric = &learning.PatternRubric{
					Grammar:    max(grammar, 0),
					Fluency:    max(fluency, 0),
					Vocabulary: max(vocabulary, 0),
				}
			}

			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				recorded, err := session.store.RecordPatternScore(cmd.Context(), score)
				if err != nil {
					return fmt.Errorf("store.RecordPatternScore() > %w", err)
				}
				session.syncer.Request()
				_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Recorded %s: %d\n", recorded.Pattern, recorded.Score)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&score.Pattern, "pattern", "", "Pattern that was practiced")
	flags.StringVar(&score.Text, "text", "", "Sentence the learner wrote")
	flags.IntVar(&score.Score, "score", 0, "Score between 0 and 100")
	flags.StringVar(&score.Feedback, "feedback", "", "Feedback on the sentence")
	flags.IntVar(&grammar, "grammar", rubricNotSet, "Grammar score between 0 and 100")
	flags.IntVar(&fluency, "fluency", rubricNotSet, "Fluency score between 0 and 100")
	flags.IntVar(&vocabulary, "vocabulary", rubricNotSet, "Vocabulary score between 0 and 100")
	return cmd
}

func newPatternListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the latest pattern scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				scores := session.store.PatternScores(cmd.Context())
				out := cmd.OutOrStdout()
				if len(scores) == 0 {
					fmt.Fprintln(out, "No patterns practiced yet.")
					return nil
				}
				start := max(len(scores)-limit, 0)
				for i := len(scores) - 1; i >= start; i-- {
					s := scores[i]
					fmt.Fprintf(out, "- %s %s: %d", s.At.Local().Format("2006-01-02"), s.Pattern, s.Score)
					if s.Feedback != "" {
						fmt.Fprintf(out, " (%s)", s.Feedback)
					}
					fmt.Fprintln(out)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of scores to show")
	return cmd
}
