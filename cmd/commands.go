package main

import (
	"context"

	service "github.com/SantiagooArturo/dashboard-agosto-sub000/internal/app"
	"github.com/spf13/cobra"
)

func overviewCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Platform totals and a summary per university",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Overview(ctx)
			})
		},
	}
}

func universityCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "university <name>",
		Short: "Metrics and students of one university (any alias works)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.UniversityReport(ctx, args[0])
			})
		},
	}
}

func studentCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "student <id>",
		Short: "Timeline, usage and CV evolution of one member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.StudentReport(ctx, args[0])
			})
		},
	}
}

func funnelCommand(f *flags) *cobra.Command {
	var university string
	cmd := &cobra.Command{
		Use:   "funnel",
		Short: "Activation funnel for the platform or one university",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.ActivationFunnel(ctx, university)
			})
		},
	}
	cmd.Flags().StringVarP(&university, "university", "u", "", "restrict the funnel to one university")
	return cmd
}
