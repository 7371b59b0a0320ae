package main

import (
	"os"
	"path/filepath"

	"github.com/GNOME/gtk-sub066/internal/config"
	"github.com/GNOME/gtk-sub066/internal/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "atspi-bridge",
	Short: "Expose an accessible tree on the AT-SPI bus",
	Long: `atspi-bridge publishes an accessible tree, described in a YAML or KDL
file, as an AT-SPI application so that screen readers and other assistive
technologies can inspect it.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default $XDG_CONFIG_HOME/atspi-bridge/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, hitCmd, rolesCmd, probeCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	log.SetLevel(cfg.LogLevel)
	return nil
}

func programName() string {
	if cfg.ProgramName != "" {
		return cfg.ProgramName
	}
	return filepath.Base(os.Args[0])
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
