package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errUnhealthy = errors.New("scoring service is unreachable")

func scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <registration-number>",
		Short: "Look up one candidate's scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := appCtx.Scores().Score(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, rec)
		},
	}
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the per-subject score band report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := appCtx.Scores().Report(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, report)
		},
	}
}

func topCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "top",
		Short: "Print the group A leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := appCtx.Scores().TopStudents(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, board)
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := appCtx.Scores().DashboardSummary(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, summary)
		},
	}
}

func overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Fetch the report and leaderboard together",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ov, err := appCtx.Scores().Overview(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, ov)
		},
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the scoring service answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !appCtx.Healthy(cmd.Context()) {
				return errUnhealthy
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", appCtx.Client().BaseURL())
			return nil
		},
	}
}
