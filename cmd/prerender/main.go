package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/prerender/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errorOutput holds the root flags that control how a failed command
// reports its error.
type errorOutput struct {
	format  string
	noColor bool
}

func main() {
	var out errorOutput
	if err := newRootCmd(&out).Execute(); err != nil {
		out.print(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *errorOutput) print(w io.Writer, err error) {
	if o.noColor {
		errors.DisableColors()
	}
	errors.FprintFormat(w, err, o.format)
}

func newRootCmd(out *errorOutput) *cobra.Command {
	var configPath string
	if out == nil {
		out = &errorOutput{}
	}

	rootCmd := &cobra.Command{
		Use:   "prerender",
		Short: "Render component trees to HTML on the server",
		Long: `prerender renders component trees to HTML without a browser.

Renders wait for suspended data according to the Suspense boundaries
in the tree and embed the data they read, so a client can hydrate the
markup without loading it again.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to prerender.json (default ./prerender.json if present)")
	rootCmd.PersistentFlags().StringVar(&out.format, "error-format", "text", "Error output format: text, compact, or json")
	rootCmd.PersistentFlags().BoolVar(&out.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		serveCmd(&configPath),
		renderCmd(&configPath),
		snapshotCmd(&configPath),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
