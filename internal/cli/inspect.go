package cli

import (
	"fmt"
	"io"
	"os"

	"weld/internal/script"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var inspectQuiet bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <script>",
	Short: "Show a script's declared metadata",
	Long: `Parse a script's metadata header and print what it declares.

The header is validated the same way "weld build" validates it: the kind
must be supported, dependencies are deduplicated, and imports are merged
with the default import set.

Examples:
  # Show kind, dependencies, and effective imports
  weld inspect tool.csx

  # Only print dependency identifiers, one per line
  weld inspect tool.csx --quiet
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		meta, _, err := script.Parse(string(raw))
		if err != nil {
			return err
		}

		if inspectQuiet {
			for _, dep := range meta.Dependencies {
				fmt.Fprintln(cmd.OutOrStdout(), dep)
			}
			return nil
		}
		printMetadata(cmd.OutOrStdout(), args[0], meta)
		return nil
	},
}

func printMetadata(w io.Writer, path string, meta *script.Metadata) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "SCRIPT: %s\n", path)
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "Kind: %s\n", meta.Kind)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Dependencies:")
	if len(meta.Dependencies) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, dep := range meta.Dependencies {
		fmt.Fprintf(w, "  %s\n", dep)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Imports:")
	for _, imp := range meta.Imports {
		fmt.Fprintf(w, "  %s\n", imp)
	}
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVarP(&inspectQuiet, "quiet", "q", false, "Only print dependency identifiers")
}
