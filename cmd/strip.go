package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chriserin/specdown/internal/parser"
	"github.com/spf13/cobra"
)

var stripCmd = &cobra.Command{
	Use:   "strip <spec-file>",
	Short: "Print a spec file with the test functions removed from its code blocks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStrip(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(stripCmd)
}

func RunStrip(w io.Writer, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	_, err = w.Write(parser.Strip(content))
	return err
}
