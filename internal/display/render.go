package display

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/glamour"
)

// renderer is the markdown renderer used for structured responses.
// Nil until InitRenderer succeeds; rendering falls back to plain output.
var renderer *glamour.TermRenderer

// InitRenderer initializes the glamour renderer for --render mode
func InitRenderer() error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	renderer = r
	return nil
}

// ShowResponse displays a decision-engine response body. Valid JSON is
// pretty-printed (and syntax-highlighted when the renderer is active);
// anything else is shown raw.
func ShowResponse(raw json.RawMessage) {
	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		titleColor.Println("AI Response (Raw)")
		fmt.Println(string(raw))
		return
	}

	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		pretty = raw
	}

	titleColor.Println("AI Decision Engine Response")
	if renderer != nil {
		out, err := renderer.Render("```json\n" + string(pretty) + "\n```")
		if err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Println(string(pretty))
}
