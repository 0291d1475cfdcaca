package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/scriv/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  "Display version, commit, build date, and Go version information for scriv",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		plain, _ := cmd.Flags().GetBool("plain")
		out := cmd.OutOrStdout()
		if plain {
			fmt.Fprintln(out, build.ResolvedVersion())
			return nil
		}
		fmt.Fprintln(out, build.String())
		fmt.Fprintf(out, "go: %s\n", runtime.Version())
		fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("plain", false, "Print only the version number")
	rootCmd.AddCommand(versionCmd)
}
