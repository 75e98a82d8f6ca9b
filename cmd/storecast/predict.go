package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Veraticus/storecast/internal/cli"
	"github.com/Veraticus/storecast/internal/forecast"
	"github.com/Veraticus/storecast/internal/model"
	"github.com/Veraticus/storecast/internal/tui/components"
	"github.com/Veraticus/storecast/internal/tui/themes"
	"github.com/spf13/cobra"
)

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict sales for one item",
		Long: `Predict sales for one item and outlet. Features not given with --set
keep their sample defaults.

Example:
  storecast predict --set Item_MRP=182.5 --set Outlet_Type="Grocery Store"`,
		Args: cobra.NoArgs,
		RunE: runPredict,
	}

	cmd.Flags().StringArray("set", nil, "feature assignment name=value (repeatable)")
	cmd.Flags().Bool("json", false, "print the prediction as JSON")

	return cmd
}

type predictionJSON struct {
	Inputs         map[string]string `json:"inputs"`
	ModelPath      string            `json:"model_path"`
	ID             int64             `json:"id,omitempty"`
	PredictedSales float64           `json:"predicted_sales"`
	Cached         bool              `json:"cached"`
}

func runPredict(cmd *cobra.Command, _ []string) error {
	assignments, _ := cmd.Flags().GetStringArray("set")
	asJSON, _ := cmd.Flags().GetBool("json")
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	input, err := a.service.Catalog().ParseAssignments(assignments)
	if err != nil {
		return err
	}

	p, err := a.service.Predict(ctx, input)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(predictionJSON{
			Inputs:         p.Inputs,
			ModelPath:      p.ModelPath,
			ID:             p.ID,
			PredictedSales: p.Value,
			Cached:         p.Cached,
		})
	}
	return printPrediction(cmd.OutOrStdout(), p)
}

func printPrediction(w io.Writer, p *model.Prediction) error {
	chart := components.NewBarChartModel(forecast.ChartTitle, forecast.ChartYLabel,
		forecast.FormatCurrency, themes.Default).SetValue(p.Value)

	_, err := fmt.Fprintf(w, "%s\n\n%s\n", cli.FormatSuccess(forecast.SuccessMessage(p.Value)), chart.View())
	return err
}
