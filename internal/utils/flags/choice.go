package flags

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefix        = "<"
	choicePlaceholderSuffix        = ">"
	choiceSeparatorLiteral         = "|"
	choiceUsageEmptyTemplate       = "`%s`"
	choiceUsageFullTemplate        = "`%s` %s"
	choiceTypeNameConstant         = "choice"
	unsupportedChoiceMessage       = "unsupported value"
	unsupportedChoiceErrorTemplate = "%w %q (expected one of %s)"
	choiceListSeparatorConstant    = ", "
)

// ErrUnsupportedChoice indicates a flag value outside its allowed choices.
var ErrUnsupportedChoice = errors.New(unsupportedChoiceMessage)

// ChoiceValue is a pflag.Value restricted to a fixed, case-insensitive set of choices.
type ChoiceValue struct {
	choices []string
	current string
}

var _ pflag.Value = (*ChoiceValue)(nil)

// NewChoiceValue constructs a ChoiceValue holding defaultChoice.
func NewChoiceValue(defaultChoice string, choices []string) *ChoiceValue {
	return &ChoiceValue{choices: normalizeChoices(choices), current: strings.ToLower(strings.TrimSpace(defaultChoice))}
}

// String returns the current choice.
func (value *ChoiceValue) String() string {
	if value == nil {
		return ""
	}
	return value.current
}

// Set validates and stores candidate.
func (value *ChoiceValue) Set(candidate string) error {
	normalizedCandidate := strings.ToLower(strings.TrimSpace(candidate))
	for _, choice := range value.choices {
		if choice == normalizedCandidate {
			value.current = normalizedCandidate
			return nil
		}
	}
	return fmt.Errorf(unsupportedChoiceErrorTemplate, ErrUnsupportedChoice, candidate, strings.Join(value.choices, choiceListSeparatorConstant))
}

// Type reports the flag type shown in help output.
func (value *ChoiceValue) Type() string {
	return choiceTypeNameConstant
}

// Choices returns the allowed values.
func (value *ChoiceValue) Choices() []string {
	return append([]string(nil), value.choices...)
}

// Usage renders FormatChoiceUsage for the current choice.
func (value *ChoiceValue) Usage(description string) string {
	return FormatChoiceUsage(value.current, value.choices, description)
}

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := buildChoicePlaceholder(defaultChoice, choices)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

func buildChoicePlaceholder(defaultChoice string, choices []string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	displayedChoices := normalizeChoices(choices)
	for index, choice := range displayedChoices {
		if choice == normalizedDefault {
			displayedChoices[index] = strings.ToUpper(choice)
		}
	}
	return choicePlaceholderPrefix + strings.Join(displayedChoices, choiceSeparatorLiteral) + choicePlaceholderSuffix
}

func normalizeChoices(choices []string) []string {
	normalized := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		normalizedChoice := strings.ToLower(strings.TrimSpace(choice))
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		normalized = append(normalized, normalizedChoice)
	}
	return normalized
}
