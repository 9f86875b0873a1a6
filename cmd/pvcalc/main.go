package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/internal/config"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/internal/logger"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/internal/server"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/tables"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every subcommand needs once flags are parsed.
type app struct {
	tablesPath string
	verbose    bool

	cfg    *config.Config
	log    *zap.Logger
	tables *tables.Tables
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "pvcalc",
		Short:        "Electrical compliance and safety-margin checks for grid-tied PV installations",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.log.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.tablesPath, "tables", "", "TOML file overlaying the built-in tables")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")

	rootCmd.AddCommand(a.checkCmd())
	rootCmd.AddCommand(a.stringsCmd())
	rootCmd.AddCommand(a.microCmd())
	rootCmd.AddCommand(a.subscriptionCmd())
	rootCmd.AddCommand(a.marginsCmd())
	rootCmd.AddCommand(a.exportCmd())
	rootCmd.AddCommand(a.tablesCmd())
	rootCmd.AddCommand(a.serveCmd())

	return rootCmd
}

func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	log, err := logger.New(level, cfg.Log.Format, "pvcalc")
	if err != nil {
		return err
	}
	a.log = log

	path := a.tablesPath
	if path == "" {
		path = cfg.TablesPath
	}
	t, err := tables.LoadOrDefault(path)
	if err != nil {
		return err
	}
	a.tables = t
	a.log.Debug("tables loaded", zap.String("path", path))
	return nil
}

func (a *app) checkCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check [project-path]",
		Short: "Evaluate a project and print the full dossier with findings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd.OutOrStdout(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the dossier and findings as JSON")
	return cmd
}

func (a *app) stringsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strings [project-path]",
		Short: "Show the per-MPPT string analysis and DC safety checks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStrings(cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) microCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "micro [project-path]",
		Short: "Show microinverter branches and their voltage drop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMicro(cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) subscriptionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscription [project-path]",
		Short: "Recommend a utility subscription tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSubscription(cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) marginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "margins [project-path]",
		Short: "Show the panel placement margins for the roof and wind zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMargins(cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [project-path]",
		Short: "Write the dossier to an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExport(cmd.OutOrStdout(), args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "dossier.xlsx", "workbook path")
	return cmd
}

func (a *app) tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Print the effective tables as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTables(cmd.OutOrStdout())
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the HTTP API for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.Server.Port = port
			}
			gin.SetMode(a.cfg.Server.GinMode)
			srv := server.New(args[0], a.tables, a.log)
			return srv.Run(a.cfg.Addr())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (overrides PVCALC_PORT)")
	return cmd
}
