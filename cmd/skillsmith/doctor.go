package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/doctor"
	"github.com/skillsmith/skillsmith/pkg/presenter"
	"github.com/skillsmith/skillsmith/pkg/scaffold"
)

// DoctorConfig holds configuration for the doctor command
type DoctorConfig struct {
	Fix bool
}

// NewDoctorConfig creates a new DoctorConfig with default values
func NewDoctorConfig() *DoctorConfig {
	return &DoctorConfig{}
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check your skillsmith setup health across all AI platforms",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		config := getDoctorConfigFromFlags(cmd)

		cwd, err := os.Getwd()
		if err != nil {
			presenter.Error(err, "Failed to resolve working directory")
			os.Exit(1)
		}

		report := doctor.Run(cwd)
		presentDoctorReport(report)

		if report.Healthy() {
			presenter.Success("All checks passed! Your skillsmith setup is healthy.")
			return
		}

		if config.Fix {
			presenter.Info("Running skillsmith init to fix issues...")
			s := scaffold.New(skillLibrary(), cwd)
			actions, err := s.Init(ctx, scaffold.Options{})
			presentInitActions(actions)
			if err != nil {
				presenter.Error(err, "Fix failed")
				os.Exit(1)
			}
			// Re-check after the fix.
			if doctor.Run(cwd).Healthy() {
				presenter.Success("Issues fixed.")
				return
			}
		}

		presenter.Warning("Some issues found. Run 'skillsmith init' to fix missing files.")
		os.Exit(1)
	},
}

func init() {
	defaults := NewDoctorConfig()
	doctorCmd.Flags().Bool("fix", defaults.Fix, "Auto-fix missing files by running init")
}

// getDoctorConfigFromFlags extracts doctor configuration from command flags
func getDoctorConfigFromFlags(cmd *cobra.Command) *DoctorConfig {
	config := NewDoctorConfig()

	if fix, err := cmd.Flags().GetBool("fix"); err == nil {
		config.Fix = fix
	}

	return config
}

func presentDoctorReport(report doctor.Report) {
	section := ""
	for _, c := range report.Checks {
		if c.Section != section {
			section = c.Section
			presenter.Section(section)
		}
		line := fmt.Sprintf("%s: %s", c.Name, c.Detail)
		switch c.Status {
		case doctor.StatusOK:
			presenter.Success(line)
		case doctor.StatusWarn:
			presenter.Warning(line)
		case doctor.StatusFail:
			presenter.Error(errors.New(c.Detail), c.Name)
		default:
			presenter.Info(line)
		}
	}
}
