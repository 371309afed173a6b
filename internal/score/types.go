package score

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Label is the classifier's discrete verdict for a window.
type Label string

const (
	HumanWritten         Label = "Human Written"
	LightlyAIAssisted    Label = "Lightly AI-Assisted"
	ModeratelyAIAssisted Label = "Moderately AI-Assisted"
	AIGenerated          Label = "AI-Generated"
)

// Labels lists every known label in ascending order of AI involvement.
var Labels = []Label{HumanWritten, LightlyAIAssisted, ModeratelyAIAssisted, AIGenerated}

// Confidence is the classifier's confidence tier for a window.
type Confidence string

const (
	Low    Confidence = "Low"
	Medium Confidence = "Medium"
	High   Confidence = "High"
)

// Confidences lists every known confidence tier, lowest first.
var Confidences = []Confidence{Low, Medium, High}

// Window is one scored span of the source text. Offsets count characters
// (runes), not bytes.
type Window struct {
	StartIndex int        `json:"start_index"`
	EndIndex   int        `json:"end_index"`
	Score      float64    `json:"ai_assistance_score"`
	Label      Label      `json:"label"`
	Confidence Confidence `json:"confidence"`
}

// Result is a complete classification of one document.
type Result struct {
	Text               string   `json:"text"`
	FractionAI         float64  `json:"fraction_ai"`
	FractionAIAssisted float64  `json:"fraction_ai_assisted"`
	FractionHuman      float64  `json:"fraction_human"`
	Windows            []Window `json:"windows"`
}

// UnknownLabelError reports a label outside the known set.
type UnknownLabelError struct {
	Value string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown label: %q", e.Value)
}

// UnknownConfidenceError reports a confidence tier outside the known set.
type UnknownConfidenceError struct {
	Value string
}

func (e *UnknownConfidenceError) Error() string {
	return fmt.Sprintf("unknown confidence: %q", e.Value)
}

// ParseLabel returns the Label named by s, or an *UnknownLabelError.
func ParseLabel(s string) (Label, error) {
	for _, l := range Labels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", &UnknownLabelError{Value: s}
}

// ParseConfidence returns the Confidence named by s, or an *UnknownConfidenceError.
func ParseConfidence(s string) (Confidence, error) {
	for _, c := range Confidences {
		if string(c) == s {
			return c, nil
		}
	}
	return "", &UnknownConfidenceError{Value: s}
}

// Validate checks every window's label and confidence against the closed
// enumerations. The first offending window is reported by index. Text must
// be valid UTF-8 so that rune offsets reproduce it exactly.
func (r Result) Validate() error {
	if !utf8.ValidString(r.Text) {
		return errors.New("result text is not valid UTF-8")
	}
	for i, w := range r.Windows {
		if _, err := ParseLabel(string(w.Label)); err != nil {
			return fmt.Errorf("window %d: %w", i, err)
		}
		if _, err := ParseConfidence(string(w.Confidence)); err != nil {
			return fmt.Errorf("window %d: %w", i, err)
		}
	}
	return nil
}

// Percent returns the score as a truncated integer percentage.
func Percent(score float64) int {
	return int(score * 100)
}
