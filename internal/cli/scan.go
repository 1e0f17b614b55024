package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/coral-mesh/dwprod/internal/cli/helpers"
	"github.com/coral-mesh/dwprod/internal/config"
	"github.com/coral-mesh/dwprod/internal/filter"
	"github.com/coral-mesh/dwprod/internal/logging"
	"github.com/coral-mesh/dwprod/internal/report"
	"github.com/coral-mesh/dwprod/pkg/dwprod"
)

// producerRow is one streamed result line.
type producerRow struct {
	Producer   string `header:"producer" json:"producer"`
	UnitOffset uint64 `header:"unit_offset" json:"unit_offset"`
	Version    uint16 `header:"dwarf_version" json:"dwarf_version"`
	Missing    bool   `header:"missing" json:"missing,omitempty"`
}

func newProducerRow(rec dwprod.Producer) producerRow {
	return producerRow{
		Producer:   rec.Value,
		UnitOffset: rec.UnitOffset,
		Version:    rec.Version,
		Missing:    rec.Missing,
	}
}

// String is the text output line.
func (r producerRow) String() string {
	if r.Missing {
		return "<missing>"
	}
	return r.Producer
}

// entryRow is one line of the summary table.
type entryRow struct {
	Producer    string `header:"PRODUCER"`
	Units       int    `header:"UNITS"`
	FirstOffset string `header:"FIRST_OFFSET"`
}

func run(cmd *cobra.Command, opts *options, path string) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	// Compile before touching the file so expression errors surface first.
	where, err := filter.Compile(cfg.Scan.Where)
	if err != nil {
		return err
	}

	scanCfg := dwprod.DefaultConfig()
	scanCfg.Logger = logger
	scanCfg.IncludeMissing = cfg.Scan.IncludeMissing || opts.summary
	scanCfg.RequireDebugInfo = cfg.Scan.RequireDebugInfo

	format := helpers.OutputFormat(cfg.Output.Format)
	if opts.summary {
		return runSummary(cmd.OutOrStdout(), path, scanCfg, where, format)
	}
	return runStream(cmd.OutOrStdout(), path, scanCfg, where, format)
}

// resolveConfig layers explicitly set flags over the config file and env.
func resolveConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	loader, err := config.NewLoader()
	if err != nil {
		return nil, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		if err := helpers.ValidateFormat(opts.format, helpers.SupportedFormats); err != nil {
			return nil, err
		}
		cfg.Output.Format = opts.format
	}
	if flags.Changed("where") {
		cfg.Scan.Where = opts.where
	}
	if flags.Changed("include-missing") {
		cfg.Scan.IncludeMissing = opts.includeMissing
	}
	if flags.Changed("require-debug-info") {
		cfg.Scan.RequireDebugInfo = opts.requireDebugInfo
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	stderr := cmd.ErrOrStderr()

	pretty := false
	if f, ok := stderr.(*os.File); ok {
		pretty = logging.IsTerminal(f)
	}
	if cfg.Log.Pretty != nil {
		pretty = *cfg.Log.Pretty
	}

	return logging.NewWithComponent(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: pretty,
		Output: stderr,
	}, "dwprod")
}

// runStream writes each matching unit as soon as it is decoded. Output
// already written stays in place when a later unit fails to parse.
func runStream(w io.Writer, path string, cfg *dwprod.Config, where *filter.Filter, format helpers.OutputFormat) error {
	out, err := helpers.NewStreamFormatter(format, w)
	if err != nil {
		return err
	}

	err = dwprod.Scan(path, cfg, func(p *dwprod.Producers) error {
		for rec, err := range p.All() {
			if err != nil {
				return err
			}
			ok, err := where.Match(rec)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := out.WriteRecord(newProducerRow(rec)); err != nil {
				return err
			}
		}
		return nil
	})

	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

// runSummary aggregates every unit before writing anything. The filter only
// applies to units that carry a producer.
func runSummary(w io.Writer, path string, cfg *dwprod.Config, where *filter.Filter, format helpers.OutputFormat) error {
	agg := report.NewAggregator()

	err := dwprod.Scan(path, cfg, func(p *dwprod.Producers) error {
		for rec, err := range p.All() {
			if err != nil {
				return err
			}
			if !rec.Missing {
				ok, err := where.Match(rec)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
			}
			agg.Add(rec)
		}
		return nil
	})
	if err != nil {
		return err
	}

	summary := agg.Summary()
	summary.Path = path
	summary.Fingerprint, err = report.FingerprintFile(path)
	if err != nil {
		return err
	}

	return writeSummary(w, summary, format)
}

func writeSummary(w io.Writer, s report.Summary, format helpers.OutputFormat) error {
	formatter, err := helpers.NewFormatter(format)
	if err != nil {
		return err
	}

	if format == helpers.FormatJSON {
		return formatter.Format(s, w)
	}

	rows := make([]entryRow, len(s.Producers))
	for i, e := range s.Producers {
		rows[i] = entryRow{
			Producer:    e.Producer,
			Units:       e.Units,
			FirstOffset: fmt.Sprintf("0x%x", e.FirstOffset),
		}
	}

	if format == helpers.FormatText {
		toolchains := fmt.Sprintf("%d", len(s.Producers))
		if s.MixedToolchains {
			toolchains += " (mixed)"
		}
		if _, err := fmt.Fprintf(w, "File:         %s\nFingerprint:  xxh3:%s\nUnits:        %d (%d with producer, %d missing)\nToolchains:   %s\n\n",
			s.Path, s.Fingerprint, s.Units, s.WithProducer, s.Missing, toolchains); err != nil {
			return err
		}
	}

	return formatter.Format(rows, w)
}
