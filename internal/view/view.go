// Package view turns an analysis result into a declarative description of the
// results display and renders it.
package view

import (
	"math"
	"strconv"

	"github.com/spigell/jd-match/internal/employee"
)

const (
	ScoreTitle      = "Job Match Score"
	SummaryTitle    = "Profile Summary"
	SkillsTitle     = "Missing Skills"
	NoMissingSkills = "No missing skills identified."
)

// View is the full results display. It is rebuilt from scratch for every result.
type View struct {
	Score   ScoreSection   `json:"score"`
	Summary SummarySection `json:"summary"`
	Skills  SkillsSection  `json:"missing_skills"`
}

type ScoreSection struct {
	Title string `json:"title"`
	// Progress is the width of the progress indicator in percent, clamped to [0, 100].
	Progress float64 `json:"progress"`
	Text     string  `json:"text"`
}

type SummarySection struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// SkillsSection holds either Items or, when there are none, EmptyText.
type SkillsSection struct {
	Title     string   `json:"title"`
	Items     []string `json:"items,omitempty"`
	EmptyText string   `json:"empty_text,omitempty"`
}

// Build maps the result to its view. A nil result gives the view of a zero result.
func Build(result *employee.AnalysisResult) *View {
	if result == nil {
		result = &employee.AnalysisResult{}
	}

	v := &View{
		Score: ScoreSection{
			Title:    ScoreTitle,
			Progress: clamp(result.Match, 0, 100),
			Text:     FormatPercent(result.Match),
		},
		Summary: SummarySection{
			Title: SummaryTitle,
			Text:  result.ProfileSummary,
		},
		Skills: SkillsSection{
			Title: SkillsTitle,
		},
	}

	if len(result.MissingSkills) > 0 {
		v.Skills.Items = append([]string(nil), result.MissingSkills...)
	} else {
		v.Skills.EmptyText = NoMissingSkills
	}

	return v
}

// FormatPercent prints the score with the shortest exact decimal form, so 72 is "72%" and 72.5 is "72.5%".
func FormatPercent(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64) + "%"
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return lo
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
