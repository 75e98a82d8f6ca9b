package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/storecast/internal/common"
	"github.com/Veraticus/storecast/internal/forecast"
	"github.com/Veraticus/storecast/internal/model"
	"github.com/Veraticus/storecast/internal/schema"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 100 + 2*Item_MRP + 50*Outlet_Size_Medium; the catalog defaults give 550.
const testModel = `{
  "kind": "linear",
  "feature_names": ["Item_MRP", "Outlet_Size_Medium"],
  "intercept": 100,
  "coefficients": {"Item_MRP": 2, "Outlet_Size_Medium": 50}
}`

type testEnv struct {
	dir       string
	config    string
	modelPath string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:       dir,
		config:    filepath.Join(dir, "config.yaml"),
		modelPath: filepath.Join(dir, "model.json"),
	}
	require.NoError(t, os.WriteFile(env.modelPath, []byte(testModel), 0o600))
	env.writeConfig(t, env.modelPath)
	return env
}

func (e testEnv) writeConfig(t *testing.T, modelPath string) {
	t.Helper()
	body := fmt.Sprintf(`model:
  path: %s
database:
  path: %s
logging:
  level: error
`, modelPath, filepath.Join(e.dir, "history.db"))
	require.NoError(t, os.WriteFile(e.config, []byte(body), 0o600))
}

// execute runs a fresh root command with the given arguments.
func (e testEnv) execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Structure(t *testing.T) {
	cmd := newRootCmd()
	t.Cleanup(viper.Reset)

	for _, flag := range []string{"config", "log-level", "log-format", "log-file", "model"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"form", "predict", "batch", "schema", "history", "version"}, names)
}

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "storecast version dev\n", out)
}

func TestPredictCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "defaults", args: nil, expected: "Predicted Sales: $550.00"},
		{name: "override", args: []string{"--set", "Item_MRP=100"}, expected: "Predicted Sales: $350.00"},
		{name: "categorical override", args: []string{"--set", "Outlet_Size=High"}, expected: "Predicted Sales: $500.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			out, err := env.execute(t, append([]string{"predict"}, tt.args...)...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.expected)
			assert.Contains(t, out, forecast.ChartTitle)
		})
	}
}

func TestPredictCommand_JSON(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.execute(t, "predict", "--json", "--set", "Item_MRP=150")
	require.NoError(t, err)
	assert.Contains(t, out, `"predicted_sales": 450`)
	assert.Contains(t, out, `"Item_MRP": "150"`)
}

func TestPredictCommand_Errors(t *testing.T) {
	tests := []struct {
		check func(t *testing.T, err error)
		name  string
		args  []string
	}{
		{
			name: "unknown feature",
			args: []string{"--set", "Shelf_Color=red"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, common.ErrInvalidInput)
			},
		},
		{
			name: "malformed assignment",
			args: []string{"--set", "Item_MRP"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, common.ErrInvalidInput)
			},
		},
		{
			name: "non numeric",
			args: []string{"--set", "Item_MRP=lots"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, common.ErrInvalidInput)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.execute(t, append([]string{"predict"}, tt.args...)...)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestPredictCommand_MissingModel(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, filepath.Join(env.dir, "absent.json"))

	_, err := env.execute(t, "predict")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrModelNotFound)
	assert.Equal(t, "Model file not found. Please check the file path.", common.UserMessage(err))
}

func TestHistoryCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No predictions recorded yet")

	_, err = env.execute(t, "predict")
	require.NoError(t, err)
	_, err = env.execute(t, "predict", "--set", "Item_MRP=100")
	require.NoError(t, err)

	out, err = env.execute(t, "history", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Recent predictions (2 of 2)")
	assert.Contains(t, out, "$550.00")
	assert.Contains(t, out, "$350.00")

	out, err = env.execute(t, "history", "--id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Prediction #1")
	assert.Contains(t, out, "Outlet_Size")

	_, err = env.execute(t, "history", "--id", "99")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = env.execute(t, "history", "--limit", "0")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSchemaCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.execute(t, "schema", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "source: model")
	assert.Contains(t, out, "  - Item_MRP\n  - Outlet_Size_Medium\n")
	assert.Contains(t, out, "extra_in_static:")

	out, err = env.execute(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "Expected features (2, from model)")
	assert.Contains(t, out, "Static schema disagrees with the model")

	_, err = env.execute(t, "schema", "--format", "xml")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestWriteSchemaTable_NoDrift(t *testing.T) {
	report := newSchemaReport(schema.MustNew([]string{"a", "b"}), schema.SourceStatic, schema.Drift{}, "m.json")

	var buf bytes.Buffer
	require.NoError(t, writeSchemaTable(&buf, report))
	assert.Contains(t, buf.String(), "Static schema matches the model")
	assert.Nil(t, report.Drift)
}

func TestBatchCommand(t *testing.T) {
	env := newTestEnv(t)
	input := filepath.Join(env.dir, "in.csv")
	output := filepath.Join(env.dir, "out.csv")
	require.NoError(t, os.WriteFile(input, []byte(
		"Row,Item_MRP,Outlet_Size\n"+
			"a,100,Medium\n"+
			"b,100,Small\n"+
			"c,oops,Small\n"), 0o600))

	_, err := env.execute(t, "batch", input, "--output", output, "--no-progress")
	require.NoError(t, err)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Row", "Item_MRP", "Outlet_Size", PredictionColumn},
		{"a", "100", "Medium", "350.00"},
		{"b", "100", "Small", "300.00"},
		{"c", "oops", "Small", ""},
	}, records)
}

func TestBatchCommand_MissingInput(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.execute(t, "batch", filepath.Join(env.dir, "absent.csv"))
	require.Error(t, err)
	assert.Equal(t, "Input file not found. Please check the file path.", common.UserMessage(err))
}

type stubPredictor struct {
	err error
}

func (s stubPredictor) Predict(ctx context.Context, input model.RawInput) (*model.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	mrp, _ := input.Get("Item_MRP")
	return &model.Prediction{Value: mrp.Number * 3}, nil
}

func TestPredictRows(t *testing.T) {
	catalog := forecast.DefaultCatalog()

	tests := []struct {
		ctx       func() context.Context
		wantErr   error
		predictor stubPredictor
		name      string
		records   [][]string
		want      string
		predicted int64
		failed    int64
		rows      int
	}{
		{
			name:      "feature columns only",
			records:   [][]string{{"Item_MRP"}, {"10"}, {"2.5"}},
			want:      "Item_MRP,Predicted_Sales\n10,30.00\n2.5,7.50\n",
			predicted: 2,
			rows:      2,
		},
		{
			name:      "predictor failure leaves value empty",
			records:   [][]string{{"Item_MRP"}, {"10"}},
			predictor: stubPredictor{err: errors.New("boom")},
			want:      "Item_MRP,Predicted_Sales\n10,\n",
			failed:    1,
			rows:      1,
		},
		{
			name:    "no feature columns",
			records: [][]string{{"Store"}, {"x"}},
			wantErr: common.ErrInvalidInput,
		},
		{
			name:    "canceled",
			records: [][]string{{"Item_MRP"}, {"10"}},
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			want:    "Item_MRP,Predicted_Sales\n",
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}
			var buf bytes.Buffer
			stats := &batchStats{}
			rows := 0

			err := predictRows(ctx, tt.predictor, catalog, tt.records, csv.NewWriter(&buf), stats, func() { rows++ })
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.want != "" {
				assert.Equal(t, tt.want, buf.String())
			}
			assert.Equal(t, tt.predicted, stats.predicted.Load())
			assert.Equal(t, tt.failed, stats.failed.Load())
			assert.Equal(t, tt.rows, rows)
		})
	}
}

func TestBatchStats_String(t *testing.T) {
	stats := &batchStats{}
	stats.predicted.Add(3)
	stats.failed.Add(1)
	assert.Equal(t, "3 predicted, 1 failed", stats.String())
	assert.False(t, strings.Contains(stats.String(), "interrupted"))
}
