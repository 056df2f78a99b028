package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/spf13/cobra"

	"github.com/issue-planner/planctl/internal/config"
	"github.com/issue-planner/planctl/internal/firecrawl"
	"github.com/issue-planner/planctl/internal/ghoutput"
	"github.com/issue-planner/planctl/internal/githubapi"
	"github.com/issue-planner/planctl/internal/logging"
	"github.com/issue-planner/planctl/internal/plandoc"
	"github.com/issue-planner/planctl/internal/planner"
	"github.com/issue-planner/planctl/internal/tools"
)

// toolUse records one completed tool call for the end-of-run summary.
type toolUse struct {
	Name     string
	Target   string
	Duration time.Duration
}

// newPlanCommand creates the "plan" subcommand that generates an execution
// plan for a GitHub issue.
func newPlanCommand(opts *Options) *cobra.Command {
	var (
		repo      string
		issue     int
		model     string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate an execution plan for a GitHub issue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			if strings.TrimSpace(repo) == "" {
				repo = os.Getenv("GITHUB_REPOSITORY")
			}
			if strings.TrimSpace(repo) == "" {
				return fmt.Errorf("plan requires --repo or GITHUB_REPOSITORY env")
			}
			if issue <= 0 {
				return fmt.Errorf("plan requires a positive --issue number")
			}

			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			if model != "" {
				cfg.Model = model
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
			browser := githubapi.NewClient(logger, logging.NewWriter(logger))
			provider := tools.NewProvider(browser, func() (tools.Researcher, error) {
				return firecrawl.New(cfg.FirecrawlAPIKey)
			})
			pl := planner.New(client, cfg.Model, provider.Registry(), logger, cfg.MaxRounds)

			// All streamed plan text goes through this one writer.
			out := cmd.OutOrStdout()

			logger.Info("analyzing issue", "repo", repo, "issue", issue, "model", cfg.Model)

			var usage []toolUse
			plan, runErr := pl.Run(cmd.Context(), planner.Request{Repo: repo, IssueNumber: issue}, func(ev planner.Event) {
				switch ev.Kind {
				case planner.KindMessage:
					fmt.Fprint(out, ev.Text)
				case planner.KindReasoningStep:
					logger.Info("reasoning", "summary", ev.Text)
				case planner.KindToolCallStarted:
					logger.Info("calling tool", "n", len(usage)+1, "tool", ev.ToolName, "target", summarizeArgs(ev.ToolArgs))
				case planner.KindToolCallFinished:
					usage = append(usage, toolUse{
						Name:     ev.ToolName,
						Target:   summarizeArgs(ev.ToolArgs),
						Duration: ev.Duration,
					})
				}
			})
			fmt.Fprintln(out)

			if runErr != nil {
				logger.Error("plan run failed", "error", runErr)
			}

			if strings.TrimSpace(plan) != "" {
				writer := plandoc.NewWriter(cfg.OutputDir)
				path, err := writer.Save(repo, issue, plan)
				if err != nil {
					return errors.Join(runErr, err)
				}
				logger.Info("plan saved", "path", path)

				if err := ghoutput.Write(map[string]string{
					"plan_file": path,
					"repo":      repo,
					"issue":     strconv.Itoa(issue),
				}); err != nil {
					logger.Warn("failed to publish GitHub outputs", "error", err)
				}
			}

			if len(usage) > 0 {
				renderToolUsage(out, usage)
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repository slug owner/name (defaults to GITHUB_REPOSITORY)")
	cmd.Flags().IntVar(&issue, "issue", 0, "Issue number to plan for (required)")
	_ = cmd.MarkFlagRequired("issue")
	cmd.Flags().StringVar(&model, "model", "", "Model identifier override")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory to write the plan document to")

	return cmd
}
