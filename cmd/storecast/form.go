package main

import (
	"fmt"

	"github.com/Veraticus/storecast/internal/cli"
	"github.com/Veraticus/storecast/internal/tui"
	"github.com/Veraticus/storecast/internal/tui/themes"
	"github.com/spf13/cobra"
)

func formCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Open the interactive prediction form",
		Long: `Open a terminal form listing every model feature with sample defaults.

Move between fields with ↑/↓ or tab, cycle choices with ←/→, and press enter
on "Predict Sales" to run the model. ctrl+r restores the defaults.
Set logging.file (or --log-file) to keep log output off the form.`,
		Args: cobra.NoArgs,
		RunE: runForm,
	}

	cmd.Flags().Bool("inline", false, "render inline instead of using the alternate screen")

	return cmd
}

func runForm(cmd *cobra.Command, _ []string) error {
	inline, _ := cmd.Flags().GetBool("inline")
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := tui.Run(ctx,
		tui.WithPredictor(a.service),
		tui.WithCatalog(a.service.Catalog()),
		tui.WithModelPath(a.service.ModelPath()),
		tui.WithTheme(themes.GetTheme(a.settings.Theme)),
		tui.WithAltScreen(!inline),
	)
	if err != nil {
		return err
	}

	if result.Summary != "" {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Last result: "+result.Summary))
	}
	return nil
}
