package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chriserin/specdown/internal/config"
	"github.com/spf13/cobra"
)

const exampleSpecFile = "example.md"

const exampleSpec = "# Example\n" +
	"\n" +
	"Code blocks whose info string carries a function after the language are run by `specdown run`.\n" +
	"\n" +
	"```shell,script(name=\"greeting\", expected_exit_code=0)\n" +
	"echo \"Hello, world\"\n" +
	"```\n" +
	"\n" +
	"```text,verify(script_name=\"greeting\", stream=stdout)\n" +
	"Hello, world\n" +
	"```\n" +
	"\n" +
	"```text,file(path=\"notes.txt\")\n" +
	"written by specdown\n" +
	"```\n" +
	"\n" +
	"```shell,script(name=\"read\", expected_output=stdout)\n" +
	"cat notes.txt\n" +
	"```\n" +
	"\n" +
	"```text,verify(script_name=\"read\")\n" +
	"written by specdown\n" +
	"```\n"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter " + config.FileName + " and example spec in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer) error {
	// config file
	data, err := config.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("rendering config: %w", err)
	}
	created, err := writeIfMissing(config.FileName, data)
	if err != nil {
		return fmt.Errorf("writing %s: %w", config.FileName, err)
	}
	if created {
		fmt.Fprintln(w, config.FileName+" created")
	} else {
		fmt.Fprintln(w, config.FileName+" already exists")
	}

	// example spec
	created, err = writeIfMissing(exampleSpecFile, []byte(exampleSpec))
	if err != nil {
		return fmt.Errorf("writing %s: %w", exampleSpecFile, err)
	}
	if created {
		fmt.Fprintln(w, exampleSpecFile+" created")
	} else {
		fmt.Fprintln(w, exampleSpecFile+" already exists")
	}

	return nil
}

func writeIfMissing(path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
