package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/scoreboard/internal/app"
	"github.com/samvad-hq/scoreboard/internal/config"
	"github.com/samvad-hq/scoreboard/internal/logger"
)

var (
	appCtx  *app.App
	output  string
	baseURL string
)

// Execute runs the CLI, writing command output to out.
func Execute(ctx context.Context, out io.Writer) error {
	root := newRootCmd()
	root.SetOut(out)
	defer func() {
		appCtx.Close()
		_ = logger.Close()
	}()
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	output, baseURL = formatJSON, ""

	root := &cobra.Command{
		Use:           "scoreboard",
		Short:         "Examination score lookups against the scoring service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(output); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if u := strings.TrimRight(strings.TrimSpace(baseURL), "/"); u != "" {
				cfg.APIBaseURL = u
			}

			log, err := logger.Init(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			appCtx, err = app.New(cfg, log)
			if err != nil {
				logger.ErrorObj("failed to initialize app", "error", err)
				return err
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&output, "output", "o", formatJSON, "output format (json|yaml)")
	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "scoring service base URL (overrides API_BASE_URL)")

	root.AddCommand(scoreCmd(), reportCmd(), topCmd(), summaryCmd(), overviewCmd(), healthCmd())
	return root
}
