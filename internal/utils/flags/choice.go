// Package flags provides pflag values shared by multigh commands.
package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefix  = "<"
	choicePlaceholderSuffix  = ">"
	choiceSeparatorLiteral   = "|"
	choiceUsageEmptyTemplate = "`%s`"
	choiceUsageFullTemplate  = "`%s` %s"
	choiceTypeName           = "choice"
	choiceRejectedTemplate   = "must be one of %s"
)

// ChoiceValue is a string flag restricted to a fixed set of case-insensitive choices.
type ChoiceValue struct {
	target  *string
	choices []string
}

// AddChoiceFlag registers a flag that accepts one of choices and stores its lower-cased form in target.
// The usage placeholder capitalizes defaultChoice; an empty default highlights nothing.
func AddChoiceFlag(flagSet *pflag.FlagSet, target *string, name string, defaultChoice string, choices []string, usage string) {
	if flagSet == nil || target == nil || len(name) == 0 {
		return
	}
	*target = strings.ToLower(strings.TrimSpace(defaultChoice))
	flagSet.Var(&ChoiceValue{target: target, choices: normalizeChoices(choices)}, name, FormatChoiceUsage(defaultChoice, choices, usage))
}

// String returns the current value.
func (value *ChoiceValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

// Set validates candidate against the allowed choices.
func (value *ChoiceValue) Set(candidate string) error {
	normalizedCandidate := strings.ToLower(strings.TrimSpace(candidate))
	for _, choice := range value.choices {
		if choice == normalizedCandidate {
			*value.target = normalizedCandidate
			return nil
		}
	}
	return fmt.Errorf(choiceRejectedTemplate, strings.Join(value.choices, choiceSeparatorLiteral))
}

// Type names the value kind in help output.
func (value *ChoiceValue) Type() string {
	return choiceTypeName
}

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	displayedChoices := normalizeChoices(choices)
	for index, choice := range displayedChoices {
		if len(normalizedDefault) > 0 && choice == normalizedDefault {
			displayedChoices[index] = strings.ToUpper(choice)
		}
	}

	placeholder := choicePlaceholderPrefix + strings.Join(displayedChoices, choiceSeparatorLiteral) + choicePlaceholderSuffix
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// normalizeChoices lower-cases, trims, and deduplicates choices preserving order.
func normalizeChoices(choices []string) []string {
	normalized := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		normalizedChoice := strings.ToLower(strings.TrimSpace(choice))
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, duplicate := seen[normalizedChoice]; duplicate {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		normalized = append(normalized, normalizedChoice)
	}
	return normalized
}
