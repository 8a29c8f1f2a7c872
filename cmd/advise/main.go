package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nidhogg/agent-advisor/internal/catalog"
	"github.com/nidhogg/agent-advisor/internal/recommend"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		errorColor.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type options struct {
	server      string
	catalogPath string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "advise",
		Short:         "Recommend AI coding agents for a programming task",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.server, "server", os.Getenv("ADVISOR_SERVER"),
		"advisor server URL; empty runs the engine in-process")
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "",
		"agent catalog file (JSON or YAML) for in-process runs")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"show the per-component score breakdown")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newRecommendCmd(opts),
		newCompareCmd(opts),
		newAgentsCmd(opts),
	)
	return root
}

func (o *options) backend() (backend, error) {
	if o.server != "" {
		return newRemoteBackend(o.server), nil
	}
	cat, err := catalog.Open(o.catalogPath)
	if err != nil {
		return nil, err
	}
	return &localBackend{svc: recommend.NewService(cat, nil, zap.NewNop())}, nil
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <task description>",
		Short: "Classify a task description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.backend()
			if err != nil {
				return err
			}
			ta, err := b.Analyze(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return renderAnalysis(cmd.OutOrStdout(), ta)
		},
	}
}

func newRecommendCmd(opts *options) *cobra.Command {
	var topN int
	cmd := &cobra.Command{
		Use:   "recommend <task description>",
		Short: "Rank the best agents for a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.backend()
			if err != nil {
				return err
			}
			r, err := b.Recommend(cmd.Context(), strings.Join(args, " "), topN)
			if err != nil {
				return err
			}
			return renderReport(cmd.OutOrStdout(), r, opts.verbose)
		},
	}
	cmd.Flags().IntVarP(&topN, "top", "n", recommend.DefaultTopN, "number of recommendations")
	return cmd
}

func newCompareCmd(opts *options) *cobra.Command {
	var ids []string
	cmd := &cobra.Command{
		Use:   "compare --agents id,id <task description>",
		Short: "Score chosen agents side by side",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(ids) == 0 {
				return errors.New("at least one agent id is required (--agents)")
			}
			b, err := opts.backend()
			if err != nil {
				return err
			}
			r, err := b.Compare(cmd.Context(), strings.Join(args, " "), ids)
			if err != nil {
				return err
			}
			return renderReport(cmd.OutOrStdout(), r, opts.verbose)
		},
	}
	cmd.Flags().StringSliceVarP(&ids, "agents", "a", nil, "comma-separated agent ids")
	return cmd
}

func newAgentsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List the agent catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := opts.backend()
			if err != nil {
				return err
			}
			agents, err := b.Agents(cmd.Context())
			if err != nil {
				return err
			}
			if err := renderAgents(cmd.OutOrStdout(), agents); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d agents\n", len(agents))
			return nil
		},
	}
}
