package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tw93/diskmap/internal/config"
)

// flags mirrors the command line. Only flags the user actually set
// override the loaded configuration.
type flags struct {
	folder                    string
	apparentSize              bool
	disableDeleteConfirmation bool
	configPath                string
	logFile                   string
	logLevel                  string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "analyze [folder]",
		Short: "Visualize disk usage as an interactive treemap",
		Long: `Scans a folder and shows every entry as a tile proportional to its size.
Navigate with the arrow keys, enter folders, zoom into small files and
delete what you no longer need.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd.Flags(), f, cfg)

			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			folder, err := resolveFolder(arg, cfg.Folder)
			if err != nil {
				return err
			}
			return run(cmd.Context(), folder, cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.folder, flagFolder, "", "folder to scan (default: current directory)")
	fs.BoolVarP(&f.apparentSize, flagApparentSize, "a", false, "show apparent sizes instead of disk usage")
	fs.BoolVarP(&f.disableDeleteConfirmation, flagDisableDeleteConfirmation, "d", false, "delete without asking for confirmation")
	fs.StringVar(&f.configPath, flagConfig, "", "config file (default: "+config.DefaultPath()+")")
	fs.StringVar(&f.logFile, flagLogFile, "", "write logs to this file")
	fs.StringVar(&f.logLevel, flagLogLevel, "", "log level: debug, info, warn, error")
	return cmd
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(fs *pflag.FlagSet, f flags, cfg *config.Config) {
	if fs.Changed(flagFolder) {
		cfg.Folder = f.folder
	}
	if fs.Changed(flagApparentSize) {
		cfg.ApparentSize = f.apparentSize
	}
	if fs.Changed(flagDisableDeleteConfirmation) {
		cfg.DisableDeleteConfirmation = f.disableDeleteConfirmation
	}
	if fs.Changed(flagLogFile) {
		cfg.LogFile = f.logFile
	}
	if fs.Changed(flagLogLevel) {
		cfg.LogLevel = f.logLevel
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitStartupFailure)
	}
}
