// Command myworkin-report reads a snapshot of the MyWorkIn document store
// and exports cohort reports.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/pkg/logger"
	"github.com/spf13/cobra"
)

const programName = "myworkin-report"

// flags shared by every subcommand.
type flags struct {
	configFile string
	format     string
	output     string
	logLevel   string
}

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		// cobra already printed the error
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:          programName,
		Short:        "Cohort analytics over the MyWorkIn document store",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "path to a YAML config file (default $MYWORKIN_CONFIG)")
	pf.StringVarP(&f.format, "format", "f", "", "output format: text, json or csv (default report_format)")
	pf.StringVarP(&f.output, "output", "o", "", "write the report to this file instead of stdout")
	pf.StringVar(&f.logLevel, "log-level", "", "override log_level: debug, info, warn, error")

	root.AddCommand(
		overviewCommand(f),
		universityCommand(f),
		studentCommand(f),
		funnelCommand(f),
	)
	return root
}
