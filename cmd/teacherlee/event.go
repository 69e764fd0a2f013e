package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/teacherlee/internal/learning"
)

type EventKind learning.EventKind

func (k *EventKind) Set(val string) error {
	for _, kind := range allEventKinds {
		if val == string(kind) {
			*k = EventKind(kind)
			return nil
		}
	}
	return fmt.Errorf("invalid event kind: %s", val)
}

func (k EventKind) String() string {
	return string(k)
}

func (k *EventKind) Type() string {
	return "EventKind"
}

var (
	_             pflag.Value = (*EventKind)(nil)
	allEventKinds             = []learning.EventKind{learning.EventKindChat, learning.EventKindCode, learning.EventKindExam}
)

func newEventCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Record study activity",
	}
	cmd.AddCommand(newEventAddCommand(), newEventExamsCommand())
	return cmd
}

func newEventAddCommand() *cobra.Command {
	kind := EventKind(learning.EventKindChat)
	var subject string
	var metaPairs []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record that a study activity happened now",
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := parseMeta(metaPairs)
			if err != nil {
				return err
			}

			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				event, err := session.store.RecordStudyEvent(cmd.Context(), learning.EventKind(kind), subject, meta)
				if err != nil {
					return fmt.Errorf("store.RecordStudyEvent() > %w", err)
				}
				session.syncer.Request()

				_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Recorded %s study for %s at %s\n",
					event.Kind, event.Subject, event.At.Local().Format("2006-01-02 15:04"))
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.Var(&kind, "kind", fmt.Sprintf("Kind of activity. Possible values are %v", allEventKinds))
	flags.StringVar(&subject, "subject", "", "Subject id, e.g. korean or go")
	flags.StringArrayVar(&metaPairs, "meta", nil, "Extra detail as key=value, repeatable")
	return cmd
}

func newEventExamsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "exams",
		Short: "List the latest exam attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				attempts := session.store.RecentExamAttempts(cmd.Context(), limit)
				out := cmd.OutOrStdout()
				if len(attempts) == 0 {
					fmt.Fprintln(out, "No exam attempts yet.")
					return nil
				}
				for _, e := range attempts {
					fmt.Fprintf(out, "- %s %s", e.At.Local().Format("2006-01-02 15:04"), e.Subject)
					if score, ok := e.Meta["score"]; ok {
						fmt.Fprintf(out, " score: %v", score)
					}
					fmt.Fprintln(out)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 3, "Number of attempts to show")
	return cmd
}
