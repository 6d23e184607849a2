package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"rulescope/internal/detector"
	"rulescope/internal/reporter"
)

var detectValidate bool

var detectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "Detect the source language of a legacy file",
	Long: `Detect the programming language of a legacy source file from its
extension and content patterns, with a confidence score and evidence
breakdown.

Examples:
  rulescope detect policy.cbl
  rulescope detect --validate policy.cbl
  rulescope detect --format json policy.cbl > detection.json`,
	Args:         cobra.ExactArgs(1),
	RunE:         runDetect,
	SilenceUsage: true,
}

func init() {
	detectCmd.Flags().BoolVar(&detectValidate, "validate", false, "Cross-check the detection against observed rule density")
	RootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	filename, content, err := readSource(args[0])
	if err != nil {
		return err
	}

	store, err := loadProfiles()
	if err != nil {
		return fmt.Errorf("loading profiles: %w", err)
	}

	spin := GetUI().StartSimpleSpinner(os.Stderr, "Detecting language...")
	det := detector.New(store)
	res := det.Detect(filename, content)

	var validation *detector.Validation
	if detectValidate {
		v := detector.Validate(res, len(strings.Split(content, "\n")))
		validation = &v
	}
	spin.Stop()

	if verbose {
		fmt.Fprintf(os.Stderr, "Profiles loaded: %d\n", store.Len())
	}

	return newReporter().Detection(res, validation)
}

// readSource reads a source file and returns its base name and content.
func readSource(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading source file: %w", err)
	}
	return filepath.Base(path), string(data), nil
}

// newReporter picks the reporter matching the format flag.
func newReporter() reporter.Reporter {
	if format == "json" {
		return reporter.NewJSONReporter(os.Stdout)
	}
	return reporter.NewTerminalReporter(os.Stdout, GetUI())
}
