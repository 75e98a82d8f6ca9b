package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/storecast/internal/cli"
	"github.com/Veraticus/storecast/internal/common"
	"github.com/Veraticus/storecast/internal/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show the feature columns the model expects",
		Long: `Show the ordered feature columns inputs are aligned to, where that list
came from (the model itself or the configured static list), and how the static
list disagrees with the model's own feature names.`,
		Args: cobra.NoArgs,
		RunE: runSchema,
	}

	cmd.Flags().StringP("format", "f", "table", "output format (table, yaml)")

	return cmd
}

// schemaReport is the yaml form of the schema command's output.
type schemaReport struct {
	Source    string      `yaml:"source"`
	ModelPath string      `yaml:"model_path"`
	Columns   []string    `yaml:"columns"`
	Drift     *driftEntry `yaml:"drift,omitempty"`
}

type driftEntry struct {
	MissingFromStatic []string `yaml:"missing_from_static,omitempty"`
	ExtraInStatic     []string `yaml:"extra_in_static,omitempty"`
	OrderDiffers      bool     `yaml:"order_differs"`
}

func newSchemaReport(s schema.Schema, source schema.Source, drift schema.Drift, modelPath string) schemaReport {
	r := schemaReport{
		Source:    string(source),
		ModelPath: modelPath,
		Columns:   s.Columns(),
	}
	if !drift.IsZero() {
		r.Drift = &driftEntry{
			MissingFromStatic: drift.MissingFromStatic,
			ExtraInStatic:     drift.ExtraInStatic,
			OrderDiffers:      drift.OrderDiffers,
		}
	}
	return r
}

func runSchema(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "yaml" {
		return fmt.Errorf("%w: unknown format %q", common.ErrInvalidInput, format)
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	report := newSchemaReport(a.service.Schema(), a.service.Source(), a.service.Drift(), a.service.ModelPath())

	if format == "yaml" {
		return writeSchemaYAML(cmd.OutOrStdout(), report)
	}
	return writeSchemaTable(cmd.OutOrStdout(), report)
}

func writeSchemaYAML(w io.Writer, report schemaReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	return enc.Close()
}

func writeSchemaTable(w io.Writer, report schemaReport) error {
	rows := make([][]string, len(report.Columns))
	for i, col := range report.Columns {
		rows[i] = []string{strconv.Itoa(i), col}
	}

	var b strings.Builder
	b.WriteString(cli.FormatTitle(fmt.Sprintf("Expected features (%d, from %s)", len(report.Columns), report.Source)))
	b.WriteString("\n")
	b.WriteString(cli.RenderTable([]string{"#", "Column"}, rows))
	b.WriteString("\n")

	if report.Drift == nil {
		b.WriteString(cli.FormatSuccess("Static schema matches the model"))
	} else {
		b.WriteString(cli.FormatWarning("Static schema disagrees with the model"))
		for _, c := range report.Drift.MissingFromStatic {
			b.WriteString("\n  - missing from static: " + c)
		}
		for _, c := range report.Drift.ExtraInStatic {
			b.WriteString("\n  - extra in static: " + c)
		}
		if report.Drift.OrderDiffers {
			b.WriteString("\n  - column order differs")
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
