package view

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
)

const barWidth = 40

// WriteText renders the view for a terminal.
func WriteText(w io.Writer, v *View) error {
	if v == nil {
		return nil
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", v.Score.Title)
	fmt.Fprintf(&b, "  %s %s\n\n", progressBar(v.Score.Progress), v.Score.Text)

	fmt.Fprintf(&b, "%s\n", v.Summary.Title)
	fmt.Fprintf(&b, "  %s\n\n", v.Summary.Text)

	fmt.Fprintf(&b, "%s\n", v.Skills.Title)
	if len(v.Skills.Items) == 0 {
		fmt.Fprintf(&b, "  %s\n", v.Skills.EmptyText)
	}
	for _, skill := range v.Skills.Items {
		fmt.Fprintf(&b, "  - %s\n", skill)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON renders the view as indented JSON.
func WriteJSON(w io.Writer, v *View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func progressBar(progress float64) string {
	filled := int(math.Round(progress / 100 * barWidth))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}
