package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/issue-planner/planctl/internal/firecrawl"
	"github.com/issue-planner/planctl/internal/githubapi"
	"github.com/issue-planner/planctl/internal/toolcall"
	"github.com/issue-planner/planctl/internal/tools"
)

// newToolsCommand creates the "tools" subcommand that lists the declared
// tool contracts without invoking anything.
func newToolsCommand(_ *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tool contracts exposed to the planner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			provider := tools.NewProvider(
				githubapi.NewClient(logger, nil),
				func() (tools.Researcher, error) { return firecrawl.New("") },
			)

			table := newSummaryTable([]string{"Tool", "Required", "Optional", "Description"}, cmd.OutOrStdout())
			for _, t := range provider.Registry().Tools() {
				required, optional := splitParams(toolcall.SchemaFor(t.Args))
				_ = table.Append([]string{
					t.Name,
					strings.Join(required, ", "),
					strings.Join(optional, ", "),
					t.Description,
				})
			}
			return table.Render()
		},
	}
}

// splitParams separates a reflected argument schema into required and
// optional parameter names, each sorted.
func splitParams(schema map[string]any) (required, optional []string) {
	requiredSet := make(map[string]struct{})
	if names, ok := schema["required"].([]any); ok {
		for _, n := range names {
			if s, ok := n.(string); ok {
				requiredSet[s] = struct{}{}
			}
		}
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		for name := range props {
			if _, ok := requiredSet[name]; ok {
				required = append(required, name)
			} else {
				optional = append(optional, name)
			}
		}
	}
	sort.Strings(required)
	sort.Strings(optional)
	return required, optional
}
