package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/dusort/internal/dusort"
	"github.com/idelchi/dusort/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"plain", "table", "json"}

// Execute runs the CLI with the process arguments. SIGINT cancels the scan.
func (c CLI) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newCommand(c.version).ExecuteContext(ctx)
}

func newCommand(version string) *cobra.Command {
	var options dusort.Options

	cmd := &cobra.Command{
		Use:   "dusort [flags] [path]",
		Short: "Show the size of every entry of a directory, smallest first",
		Long: heredoc.Doc(`
			dusort reports the apparent size of each immediate entry of a directory,
			where a subdirectory counts the recursive total of every file below it.

			Entries are sorted ascending by size and printed with three decimals.
			Directories are marked with a trailing '/', symlinks with '@'.
			Symlinks are never followed and count with their own size.

			Paths that could not be read are listed after the sizes; their
			contribution is zero. Only an unreadable target directory is fatal.

			Positional Arguments:
			  path   Directory to analyze. Defaults to the current directory.

			The '-i' flag prints a zsh function that pipes the report into 'fzf'
			and changes into the selected directory.
		`),
		Args:          usageArgs(cobra.MaximumNArgs(1)),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Integration {
				rendered, err := integration.Render()
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), rendered)

				return nil
			}

			if err := validate(options); err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}

			options.Path = "."
			if len(args) > 0 {
				options.Path = args[0]
			}

			return logic(cmd.Context(), options, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	bindFlags(cmd.Flags(), &options)

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Err: err}
	})

	return cmd
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &ExitError{Code: ExitUsage, Err: err}
		}

		return nil
	}
}

func bindFlags(flags *pflag.FlagSet, options *dusort.Options) {
	flags.IntVarP(&options.Jobs, "jobs", "j", 0, "Directories walked in parallel (0 = number of CPUs, 1 = sequential)")
	flags.BoolVar(&options.SI, "si", false, "Use decimal units (powers of 1000) instead of binary ones")
	flags.StringVarP(&options.Output, "output", "o", "plain", "Output format: plain, table or json")
	flags.BoolVar(&options.Total, "total", true, "Print the total of all entries")
	flags.BoolVar(&options.Errors, "errors", true, "List the paths that could not be read")
	flags.BoolVar(&options.Strict, "strict", false, "Exit with code 3 if any path could not be read")
	flags.BoolVar(&options.NoProgress, "no-progress", false, "Disable the progress spinner")
	flags.BoolVarP(&options.Verbose, "verbose", "v", false, "Enable verbose logging")
	flags.BoolVar(&options.Debug, "debug", false, "Enable debug output")
	flags.BoolVarP(&options.Integration, "init", "i", false, "Output init script for shell usage")

	flags.SortFlags = false
}

func validate(options dusort.Options) error {
	if !slices.Contains(allowedOutputs, options.Output) {
		return fmt.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
	}

	if options.Jobs < 0 {
		return errors.New("jobs cannot be negative")
	}

	return nil
}
