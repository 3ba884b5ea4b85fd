package intent

import (
	"strings"
)

// Responder turns free text into a canned reply
type Responder interface {
	Respond(input string) string
}

// Category names of the default rule table
const (
	CategoryFever      = "fever"
	CategoryHeadache   = "headache"
	CategoryDiet       = "diet"
	CategoryExercise   = "exercise"
	CategoryGeneral    = "general"
	CategoryMedication = "medication"
	CategoryMental     = "mental_health"
)

const inputPlaceholder = "{input}"

// Rule maps a set of lowercase keywords to a fixed response
type Rule struct {
	Category string
	Keywords []string
	Response string
}

// matches reports whether any keyword occurs in the normalized input
func (r Rule) matches(normalized string) bool {
	for _, keyword := range r.Keywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}

// RuleResponder scans an ordered rule table; the first matching rule wins.
// It holds no mutable state and is safe for concurrent use.
type RuleResponder struct {
	rules    []Rule
	fallback string
}

// NewRuleResponder builds a responder from rules evaluated top to bottom.
// The fallback may contain "{input}", which is replaced by the trimmed input.
func NewRuleResponder(rules []Rule, fallback string) *RuleResponder {
	table := make([]Rule, len(rules))
	for i, rule := range rules {
		keywords := make([]string, 0, len(rule.Keywords))
		for _, keyword := range rule.Keywords {
			if k := strings.ToLower(strings.TrimSpace(keyword)); k != "" {
				keywords = append(keywords, k)
			}
		}
		table[i] = Rule{Category: rule.Category, Keywords: keywords, Response: rule.Response}
	}

	return &RuleResponder{
		rules:    table,
		fallback: fallback,
	}
}

// Default returns the health assistant rule table
func Default() *RuleResponder {
	return NewRuleResponder([]Rule{
		{Category: CategoryFever, Keywords: []string{"fever", "temperature", "hot"}, Response: feverResponse},
		{Category: CategoryHeadache, Keywords: []string{"headache", "head pain", "migraine"}, Response: headacheResponse},
		{Category: CategoryDiet, Keywords: []string{"diet", "nutrition", "food", "eating"}, Response: dietResponse},
		{Category: CategoryExercise, Keywords: []string{"exercise", "workout", "fitness", "physical activity"}, Response: exerciseResponse},
		{Category: CategoryGeneral, Keywords: []string{"pain", "sick", "unwell"}, Response: generalResponse},
		{Category: CategoryMedication, Keywords: []string{"medicine", "medication", "drug", "tablet"}, Response: medicationResponse},
		{Category: CategoryMental, Keywords: []string{"stress", "anxiety", "depression", "mental", "mood"}, Response: mentalHealthResponse},
	}, fallbackResponse)
}

// Brief returns the short-form table used when the full one is not wanted
func Brief() *RuleResponder {
	return NewRuleResponder([]Rule{
		{Category: CategoryFever, Keywords: []string{"fever"}, Response: briefFeverResponse},
		{Category: CategoryHeadache, Keywords: []string{"headache"}, Response: briefHeadacheResponse},
		{Category: CategoryDiet, Keywords: []string{"diet", "nutrition"}, Response: briefDietResponse},
		{Category: CategoryExercise, Keywords: []string{"exercise", "fitness"}, Response: briefExerciseResponse},
	}, briefFallbackResponse)
}

// Match returns the first rule matching the input
func (r *RuleResponder) Match(input string) (Rule, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return Rule{}, false
	}

	for _, rule := range r.rules {
		if rule.matches(normalized) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Respond returns the reply for input. Empty input yields an empty reply;
// callers are expected to reject it before asking.
func (r *RuleResponder) Respond(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	if rule, ok := r.Match(trimmed); ok {
		return rule.Response
	}
	return strings.ReplaceAll(r.fallback, inputPlaceholder, trimmed)
}
