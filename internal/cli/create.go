package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/scriv/internal/scriv"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new changelog fragment",
	Long: `Create a new changelog fragment in the fragment directory.

The file is named with the current time, your git user nick and, when you
are not on a main branch, the branch name. Its content comes from the
new_fragment_template setting.

--add and --edit default to the git config values scriv.create.add and
scriv.create.edit.`,
	Example: `  # Create a fragment and open it in your editor
  scriv create --edit

  # Create, edit and stage in one go
  scriv create --edit --add`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	createCmd.GroupID = GroupFragments
	addBoolPair(createCmd, "add", "'git add' the created file", "Don't 'git add' the created file")
	addBoolPair(createCmd, "edit", "Open the created file in your text editor", "Don't open the created file")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, _ []string) error {
	s, err := newScriv(cmd, true)
	if err != nil {
		return err
	}

	frag, err := s.CreateFragment(cmd.Context(), scriv.CreateOptions{
		Add:  optionalBool(cmd, "add"),
		Edit: optionalBool(cmd, "edit"),
	})
	if err != nil {
		return toCLIError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), frag.Path)
	return nil
}
