package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/teacherlee/internal/learning"
)

func newPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show or replace the onboarding plan",
	}
	cmd.AddCommand(newPlanShowCommand(), newPlanSetCommand())
	return cmd
}

func newPlanShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the onboarding plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				plan := session.store.OnboardingPlan(cmd.Context())
				if plan == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "No onboarding plan yet. Run `teacherlee plan set --file plan.yml` to create one.")
					return nil
				}
				printPlan(cmd, *plan)
				return nil
			})
		},
	}
}

func newPlanSetCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the onboarding plan with the one in a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			plan, err := readPlanFile(file)
			if err != nil {
				return err
			}

			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				if err := session.store.SetOnboardingPlan(cmd.Context(), plan); err != nil {
					return fmt.Errorf("store.SetOnboardingPlan() > %w", err)
				}
				session.syncer.Request()
				printPlan(cmd, plan)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML file with the plan's subjects and goals")
	return cmd
}

func readPlanFile(path string) (learning.OnboardingPlan, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return learning.OnboardingPlan{}, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var plan learning.OnboardingPlan
	if err := yaml.Unmarshal(content, &plan); err != nil {
		return learning.OnboardingPlan{}, fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now()
	}
	if err := plan.Validate(); err != nil {
		return learning.OnboardingPlan{}, fmt.Errorf("invalid plan in %s: %w", path, err)
	}
	return plan, nil
}

func printPlan(cmd *cobra.Command, plan learning.OnboardingPlan) {
	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)

	_, _ = bold.Fprintf(out, "Onboarding plan (created %s)\n", plan.CreatedAt.Local().Format("2006-01-02"))
	for _, s := range plan.Subjects {
		line := fmt.Sprintf("- %s %s [%s]", s.Icon, s.Title, s.Type)
		if s.Level != "" {
			line += " level: " + s.Level
		}
		fmt.Fprintln(out, strings.Join(strings.Fields(line), " "))
	}
	if len(plan.Goals) > 0 {
		fmt.Fprintf(out, "Goals: %s\n", strings.Join(plan.Goals, ", "))
	}
}
