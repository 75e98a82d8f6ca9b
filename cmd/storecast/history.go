package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/Veraticus/storecast/internal/cli"
	"github.com/Veraticus/storecast/internal/common"
	"github.com/Veraticus/storecast/internal/config"
	"github.com/Veraticus/storecast/internal/forecast"
	"github.com/Veraticus/storecast/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent predictions",
		Long:  `List the most recent predictions recorded in the history database.`,
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().IntP("limit", "n", 10, "number of predictions to show")
	cmd.Flags().Int64("id", 0, "show the full inputs of one prediction")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	id, _ := cmd.Flags().GetInt64("id")
	ctx := cmd.Context()

	if limit <= 0 {
		return fmt.Errorf("%w: --limit must be positive", common.ErrInvalidInput)
	}

	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	store, err := openStorage(ctx, settings.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	if id != 0 {
		p, err := store.GetPredictionByID(ctx, id)
		if err != nil {
			return err
		}
		return writePredictionDetail(cmd.OutOrStdout(), p)
	}

	total, err := store.CountPredictions(ctx)
	if err != nil {
		return err
	}
	predictions, err := store.GetRecentPredictions(ctx, limit)
	if err != nil {
		return err
	}

	if len(predictions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No predictions recorded yet"))
		return nil
	}
	return writeHistoryTable(cmd.OutOrStdout(), predictions, total)
}

func writeHistoryTable(w io.Writer, predictions []model.Prediction, total int) error {
	rows := make([][]string, len(predictions))
	for i, p := range predictions {
		rows[i] = []string{
			strconv.FormatInt(p.ID, 10),
			p.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			p.Inputs["Item_Type"],
			p.Inputs["Item_MRP"],
			p.Inputs["Outlet_Identifier"],
			forecast.FormatCurrency(p.Value),
		}
	}

	title := fmt.Sprintf("Recent predictions (%d of %d)", len(predictions), total)
	_, err := fmt.Fprintf(w, "%s\n%s\n", cli.FormatTitle(title),
		cli.RenderTable([]string{"ID", "When", "Item type", "MRP", "Outlet", "Predicted"}, rows))
	return err
}

func writePredictionDetail(w io.Writer, p *model.Prediction) error {
	names := make([]string, 0, len(p.Inputs))
	for name := range p.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%-28s %s\n", name, p.Inputs[name])
	}
	fmt.Fprintf(&b, "\nModel: %s\nPredicted: %s", p.ModelPath, forecast.FormatCurrency(p.Value))

	_, err := fmt.Fprintf(w, "%s\n", cli.RenderBox(fmt.Sprintf("Prediction #%d", p.ID), b.String()))
	return err
}
