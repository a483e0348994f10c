package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/quill/internal/config"
	"github.com/vango-dev/quill/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
   ___        _ _ _
  / _ \ _   _(_) | |
 | | | | | | | | | |
 | |_| | |_| | | | |
  \__\_\\__,_|_|_|_|
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// globalOptions holds flags shared by every command.
type globalOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "quill",
		Short: "Reactive rendering core with a keyed virtual tree",
		Long: `Quill is a reactive rendering core for Go.

State lives in reactive objects and arrays. Components render virtual
nodes inside effects, and a job queue batches re-renders into flushes
that patch the host tree with a minimal set of operations.

  • quill demo    runs a scripted app against an in-memory tree
  • quill parse   prints the AST of a template
  • quill serve   serves the demo app over HTTP with /metrics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to quill.json (default: search upward from the working directory)")

	rootCmd.AddCommand(
		demoCmd(opts),
		parseCmd(),
		serveCmd(opts),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig resolves the configuration for a command. An explicit --config
// must exist; otherwise the nearest quill.json is used, falling back to
// defaults when there is none.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	root, err := config.FindProjectRoot(".")
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(root)
}

// printBanner prints the Quill ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
