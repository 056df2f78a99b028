package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// newSummaryTable creates a table writer with the markdown formatting used
// for end-of-run summaries.
func newSummaryTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 100,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// renderToolUsage prints the completed tool calls of a run as a table.
func renderToolUsage(w io.Writer, usage []toolUse) {
	fmt.Fprintf(w, "\nTools used (%d):\n\n", len(usage))
	table := newSummaryTable([]string{"#", "Tool", "Target", "Duration"}, w)
	for i, u := range usage {
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			u.Name,
			u.Target,
			u.Duration.Round(time.Millisecond).String(),
		})
	}
	_ = table.Render()
}

// summarizeArgs condenses decoded tool arguments into a short display target.
func summarizeArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	if repo, ok := args["repo"].(string); ok {
		if n, ok := args["issue_number"].(float64); ok {
			return fmt.Sprintf("%s#%d", repo, int(n))
		}
		if path, ok := args["path"].(string); ok {
			return repo + ":" + path
		}
		return repo
	}
	if query, ok := args["query"].(string); ok {
		if len(query) > 40 {
			return query[:40] + "..."
		}
		return query
	}
	if url, ok := args["url"].(string); ok {
		return url
	}
	return ""
}
