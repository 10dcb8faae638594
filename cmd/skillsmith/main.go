package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillsmith/skillsmith/pkg/library"
	"github.com/skillsmith/skillsmith/pkg/logger"
	"github.com/skillsmith/skillsmith/pkg/presenter"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLSMITH")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillsmith")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()

	viper.SetDefault("skills_dir", filepath.Join(".agent", "skills"))
	viper.SetDefault("library_dir", library.DefaultRoot())
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
}

var rootCmd = &cobra.Command{
	Use:   "skillsmith",
	Short: "Manage a library of agent skill documents",
	Long: `Skillsmith manages a library of skill documents (SKILL.md files) for AI
coding agents: scaffolding projects, validating and cataloging skills,
searching them by relevance, composing workflows, and serving everything
over MCP.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			presenter.Warning(fmt.Sprintf("Invalid log level: %s", viper.GetString("log_level")))
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
			presenter.SetQuiet(quiet)
		}
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
		os.Exit(1)
	},
}

// skillsRoot returns the project skills directory commands operate on.
func skillsRoot() string {
	return viper.GetString("skills_dir")
}

// skillLibrary returns the template library commands install from.
func skillLibrary() *library.Library {
	return library.New(viper.GetString("library_dir"))
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().String("skills-dir", filepath.Join(".agent", "skills"), "Skills directory to operate on")
	rootCmd.PersistentFlags().String("library", library.DefaultRoot(), "Skill template library directory")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress non-essential output")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("skills_dir", rootCmd.PersistentFlags().Lookup("skills-dir"))
	viper.BindPFlag("library_dir", rootCmd.PersistentFlags().Lookup("library"))

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(budgetCmd)
	rootCmd.AddCommand(versionCmd)

	ctx := context.Background()
	shutdown, err := initTracing(ctx)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("failed to initialize tracing")
	} else {
		defer shutdown(ctx)
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
