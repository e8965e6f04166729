// Package cli provides the command-line interface for palgen.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/palgen/palgen/internal/config"
	"github.com/palgen/palgen/internal/version"
)

// NewRootCmd builds the palgen command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "palgen",
		Short: "Extract colour palettes and themes from images",
		Long: `palgen reduces an image to a weighted histogram of representative colours,
refines that histogram into a fixed 12-slot named theme, and renders labelled
colour swatches over the source image.

The three steps run independently (extract, theme, render) or as a single
pipeline (all).`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().String("config", "", "config file (default: $XDG_CONFIG_HOME/palgen/config.yaml)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newThemeCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newAllCmd())

	return rootCmd
}

// newLogger builds the command logger from the persistent verbosity flags.
func newLogger(cmd *cobra.Command) hclog.Logger {
	level := hclog.Info
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		level = hclog.Error
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "palgen",
		Level:  level,
		Output: os.Stderr,
	})
}

// loadConfig resolves the layered configuration for a command: defaults,
// then the config file (explicit via --config or the conventional location).
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath()
	}
	return config.Load(path, explicit)
}

// choiceFlag is a flag value restricted to a fixed set of strings, rejected
// at parse time rather than at run time.
type choiceFlag struct {
	value   string
	choices []string
}

var _ pflag.Value = (*choiceFlag)(nil)

func newChoiceFlag(def string, choices ...string) *choiceFlag {
	return &choiceFlag{value: def, choices: choices}
}

func (f *choiceFlag) String() string { return f.value }

func (f *choiceFlag) Set(v string) error {
	for _, c := range f.choices {
		if v == c {
			f.value = v
			return nil
		}
	}
	return fmt.Errorf("unsupported format: %s (supported: %s)", v, strings.Join(f.choices, ", "))
}

func (f *choiceFlag) Type() string { return "format" }

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.String())
		},
	}
}
