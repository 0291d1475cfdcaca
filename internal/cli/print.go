package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/scriv/internal/changelog"
	"github.com/ariel-frischer/scriv/internal/format"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print pending fragments, or a changelog entry",
	Long: `Print the entry that collect would add, or with --version the existing
changelog entry for that version.

Output goes to stdout with \n line endings. With --output it is written to
a file using the changelog's line endings.

Exit codes:
  0 - Printed
  1 - Error
  2 - No fragments, or no entry for the version`,
	Example: `  # Preview the next entry
  scriv print

  # Release notes for a published version
  scriv print --version 1.2.0 --output notes.md`,
	Args: cobra.NoArgs,
	RunE: runPrint,
}

func init() {
	printCmd.GroupID = GroupFragments
	printCmd.Flags().String("version", "", "The version of the changelog entry to extract")
	printCmd.Flags().String("output", "", "The path to a file to write the output to")
	rootCmd.AddCommand(printCmd)
}

func runPrint(cmd *cobra.Command, _ []string) error {
	s, err := newScriv(cmd, false)
	if err != nil {
		return err
	}

	version, _ := cmd.Flags().GetString("version")
	output, _ := cmd.Flags().GetString("output")

	var (
		contents string
		newline  = changelog.PlatformNewline()
	)
	if version == "" {
		contents, err = s.PrintFragments()
	} else {
		contents, newline, err = s.PrintVersion(version)
	}
	if err != nil {
		return toCLIError(err)
	}

	if output != "" {
		return toCLIError(s.WriteOutput(output, contents, newline))
	}
	fmt.Fprintln(cmd.OutOrStdout(), format.NormalizeNewlines(contents))
	return nil
}
