package cmd

import (
	"os"
	"sync"

	"github.com/spf13/cobra"

	"rulescope/internal/profile"
	"rulescope/internal/ui"
)

var (
	// Global flags
	verbose     bool
	format      string
	profilesDir string
)

// RootCmd is the top-level rulescope command.
var RootCmd = &cobra.Command{
	Use:   "rulescope",
	Short: "Business rule extraction from legacy source files",
	Long: `rulescope analyzes legacy source files (COBOL, Java, Pascal, PL/I
and others) and extracts the business rules embedded in them.

It detects the source language from weighted pattern evidence, splits
the file into chunks that respect section and rule boundaries, extracts
rules through the Anthropic API, and grades how complete the extraction
was against the rules the source itself suggests should exist.`,
}

func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	RootCmd.PersistentFlags().StringVarP(&format, "format", "f", "terminal", "Output format (terminal, json)")
	RootCmd.PersistentFlags().StringVarP(&profilesDir, "profiles", "p", "", "Directory of language profile YAML files (default: builtin)")
}

var (
	uiOnce   sync.Once
	globalUI *ui.UI
)

// GetUI returns the process-wide UI, created on first use from the format
// flag and TTY state.
func GetUI() *ui.UI {
	uiOnce.Do(func() {
		globalUI = ui.New(os.Stdout, os.Stderr, format)
	})
	return globalUI
}

// loadProfiles loads the profile store named by --profiles, or the builtin
// set.
func loadProfiles() (*profile.Store, error) {
	if profilesDir != "" {
		return profile.LoadDir(profilesDir)
	}
	return profile.LoadBuiltin(), nil
}
