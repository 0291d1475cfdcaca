package cli

import (
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/scriv/internal/scriv"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect fragments into a new changelog entry",
	Long: `Collect the fragments into a new entry at the top of the changelog.

The entry is inserted after the insert_marker line, or at the top of the file
when there is no marker. Fragments are deleted afterwards unless --keep is
given; with --add they are removed with 'git rm'.

Exit codes:
  0 - Entry added
  1 - Error
  2 - No fragments to collect`,
	Example: `  # Collect for the version in your settings
  scriv collect

  # Collect for an explicit version and stage the result
  scriv collect --version 1.2.0 --add

  # Use a custom entry title and keep the fragments
  scriv collect --title "Spring cleanup" --keep`,
	Args: cobra.NoArgs,
	RunE: runCollect,
}

func init() {
	collectCmd.GroupID = GroupFragments
	addBoolPair(collectCmd, "add", "'git add' the updated changelog and 'git rm' the fragments", "Don't use git on the changelog or fragments")
	addBoolPair(collectCmd, "edit", "Open the changelog in your text editor", "Don't open the changelog")
	collectCmd.Flags().Bool("keep", false, "Keep the fragment files that are collected")
	collectCmd.Flags().String("version", "", "The version for the new entry, overriding the version setting")
	collectCmd.Flags().String("title", "", "The title for the new entry, instead of entry_title_template")
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, _ []string) error {
	s, err := newScriv(cmd, false)
	if err != nil {
		return err
	}

	keep, _ := cmd.Flags().GetBool("keep")
	version, _ := cmd.Flags().GetString("version")
	title, _ := cmd.Flags().GetString("title")

	_, err = s.Collect(cmd.Context(), scriv.CollectOptions{
		Add:     optionalBool(cmd, "add"),
		Edit:    optionalBool(cmd, "edit"),
		Keep:    keep,
		Version: version,
		Title:   title,
	})
	return toCLIError(err)
}
