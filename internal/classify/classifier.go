package classify

import (
	"regexp"
	"strings"
)

// Label is the discrete classification outcome for a text fragment.
type Label string

const (
	LabelMenu    Label = "menu"
	LabelMaybe   Label = "maybe"
	LabelNotMenu Label = "not_menu"
)

// Result is the score for one fragment. Never persisted.
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Label      Label   `json:"label"`
}

// Phrases that mark navigation, legal, or social page chrome rather
// than food.
var blacklist = []string{
	"home", "about", "location", "press", "careers", "contact", "privacy",
	"instagram", "facebook", "linkedin", "terms", "hours", "reservation",
	"gift card", "event", "newsletter", "our story", "follow us", "shop",
	"accessibility", "error", "sign up", "login",
}

var priceRe = regexp.MustCompile(`\$\s?\d{1,3}(\.\d{2})?`)

// Classify scores how likely a text fragment is a genuine menu item.
// Pure and total: any input yields a result, confidence in [0,1].
//
// Signals are additive and independent; the blacklist penalty is
// applied after the positive signals and before clamping, so a long,
// priced phrase containing e.g. "reservation" can still be rejected.
func Classify(text string) Result {
	cleaned := strings.TrimSpace(text)
	lower := strings.ToLower(cleaned)

	hasPrice := priceRe.MatchString(cleaned)
	lengthValid := len(cleaned) >= 5 && len(cleaned) <= 100
	wordCount := len(strings.Fields(cleaned))

	isBlacklisted := false
	for _, b := range blacklist {
		if strings.Contains(lower, b) {
			isBlacklisted = true
			break
		}
	}

	confidence := 0.0
	if hasPrice {
		confidence += 0.5
	}
	if lengthValid {
		confidence += 0.2
	}
	if wordCount >= 2 {
		confidence += 0.2
	}
	if isBlacklisted {
		confidence -= 0.7
	}

	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}

	label := LabelMaybe
	if confidence >= 0.75 {
		label = LabelMenu
	} else if confidence < 0.3 {
		label = LabelNotMenu
	}

	return Result{
		Text:       cleaned,
		Confidence: confidence,
		Label:      label,
	}
}
