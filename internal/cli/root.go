package cli

import (
	"github.com/spf13/cobra"

	"github.com/coral-mesh/dwprod/internal/cli/helpers"
	"github.com/coral-mesh/dwprod/pkg/version"
)

// options holds the raw flag values. Flags only override the config file
// when they are set explicitly.
type options struct {
	format           string
	where            string
	summary          bool
	includeMissing   bool
	requireDebugInfo bool
	logLevel         string
}

// NewRootCmd builds the dwprod command.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "dwprod [flags] <path>",
		Short: "Print the DW_AT_producer of every compilation unit in a binary",
		Long: `Read the DWARF debug information of an ELF, Mach-O or PE binary and print
the producer string (compiler name, version and flags) recorded by each
compilation unit, in the order the units appear in .debug_info.

A binary usually repeats the same producer once per compilation unit.
Use --summary to collapse duplicates and audit mixed toolchains.

Settings are read from ~/.dwprod/config.yaml and DWPROD_* environment
variables; flags take precedence over both.`,
		Example: `  dwprod ./target/release/app
  dwprod -o json --where 'producer.startsWith("GNU")' /usr/bin/ls
  dwprod --summary --include-missing ./app`,
		Args:          cobra.ExactArgs(1),
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}
	cmd.SetVersionTemplate(version.Info("dwprod"))

	helpers.AddFormatFlag(cmd, &opts.format, helpers.FormatText, helpers.SupportedFormats)
	cmd.Flags().StringVar(&opts.where, "where", "", "CEL expression selecting units (variables: producer, offset, version)")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Print distinct producers with unit counts and a file fingerprint")
	cmd.Flags().BoolVar(&opts.includeMissing, "include-missing", false, "Also report units without DW_AT_producer")
	cmd.Flags().BoolVar(&opts.requireDebugInfo, "require-debug-info", false, "Fail when the binary has no .debug_info section")
	helpers.AddLogLevelFlag(cmd, &opts.logLevel)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
