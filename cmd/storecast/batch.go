package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/Veraticus/storecast/internal/cli"
	"github.com/Veraticus/storecast/internal/common"
	"github.com/Veraticus/storecast/internal/forecast"
	"github.com/Veraticus/storecast/internal/service"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// PredictionColumn is appended to every batch output row.
const PredictionColumn = "Predicted_Sales"

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <input.csv>",
		Short: "Predict sales for every row of a CSV file",
		Long: `Predict sales for every row of a CSV file. The header row names catalog
features; missing features take their defaults and other columns are copied
through untouched. The output repeats the input with a Predicted_Sales column.

Rows that fail to predict are written with an empty Predicted_Sales value.`,
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}

	cmd.Flags().StringP("output", "o", "", "output CSV file (default: stdout)")
	cmd.Flags().Bool("no-progress", false, "hide the progress bar")

	return cmd
}

// batchStats counts rows as they are processed.
type batchStats struct {
	predicted atomic.Int64
	failed    atomic.Int64
}

func (s *batchStats) String() string {
	return fmt.Sprintf("%d predicted, %d failed", s.predicted.Load(), s.failed.Load())
}

func runBatch(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	in, err := os.Open(args[0])
	if err != nil {
		return common.NewUserError("Input file not found. Please check the file path.", err)
	}
	defer in.Close()

	records, err := csv.NewReader(in).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: %s has no header row", common.ErrInvalidInput, args[0])
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	stats := &batchStats{}
	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Batch prediction")
	ctx = handler.HandleInterrupts(ctx, stats.String)

	onRow := func() {}
	if !noProgress {
		bar := newProgressBar(cmd.ErrOrStderr(), len(records)-1)
		onRow = func() {
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}

	err = predictRows(ctx, a.service, a.service.Catalog(), records, csv.NewWriter(out), stats, onRow)
	if handler.WasInterrupted() {
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess("Batch complete: "+stats.String()))
	return nil
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Predicting sales...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// predictRows writes records[0] plus PredictionColumn, then one output row per
// input row. Processing stops at the first canceled context.
func predictRows(ctx context.Context, p service.Predictor, catalog forecast.Catalog,
	records [][]string, w *csv.Writer, stats *batchStats, onRow func(),
) error {
	header := records[0]
	features := make([]int, 0, len(header))
	for i, name := range header {
		if _, ok := catalog.Lookup(name); ok {
			features = append(features, i)
		} else {
			slog.Debug("Copying non-feature column", "column", name)
		}
	}
	if len(features) == 0 {
		return fmt.Errorf("%w: header names no model features", common.ErrInvalidInput)
	}

	if err := w.Write(append(append([]string{}, header...), PredictionColumn)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for line, rec := range records[1:] {
		if err := ctx.Err(); err != nil {
			w.Flush()
			return err
		}

		values := make(map[string]string, len(features))
		for _, i := range features {
			if i < len(rec) {
				values[header[i]] = rec[i]
			}
		}

		predicted, err := predictRow(ctx, p, catalog, values)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				w.Flush()
				return err
			}
			stats.failed.Add(1)
			slog.Warn("Row prediction failed", "line", line+2, "error", err)
		} else {
			stats.predicted.Add(1)
		}

		if err := w.Write(append(append([]string{}, rec...), predicted)); err != nil {
			return fmt.Errorf("failed to write line %d: %w", line+2, err)
		}
		onRow()
	}

	w.Flush()
	return w.Error()
}

func predictRow(ctx context.Context, p service.Predictor, catalog forecast.Catalog, values map[string]string) (string, error) {
	input, err := catalog.Build(values)
	if err != nil {
		return "", err
	}
	pred, err := p.Predict(ctx, input)
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(pred.Value, 'f', 2, 64), nil
}
