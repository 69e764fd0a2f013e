package learning

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

func validateStruct(name string, v any) error {
	if err := structValidator().Struct(v); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		msgs := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("invalid %s: %s", name, strings.Join(msgs, ", "))
	}
	return nil
}

// Validate checks the subjects of the plan.
func (p OnboardingPlan) Validate() error {
	return validateStruct("onboarding plan", p)
}

// Validate checks the event kind, subject and that every meta value is a scalar.
func (e StudyEvent) Validate() error {
	if err := validateStruct("study event", e); err != nil {
		return err
	}
	keys := make([]string, 0, len(e.Meta))
	for k := range e.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch e.Meta[k].(type) {
		case string, bool, float64, float32, int, int32, int64:
		default:
			return fmt.Errorf("invalid study event: meta %q must be a string, number or boolean, got %T", k, e.Meta[k])
		}
	}
	return nil
}

func (c VocabCard) Validate() error {
	return validateStruct("vocab card", c)
}

func (s PatternScore) Validate() error {
	return validateStruct("pattern score", s)
}
