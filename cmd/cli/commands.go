package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"dashkit/adapters/excel"
	"dashkit/adapters/render"
	"dashkit/domain/chart"
	domainDataset "dashkit/domain/dataset"
	"dashkit/internal/config"
	"dashkit/internal/errors"
	"dashkit/internal/pipeline"
	"dashkit/internal/report"

	"github.com/spf13/cobra"
)

// selectionFlags are shared by every command that filters the dataset
type selectionFlags struct {
	filters []string
	ranges  []string
	sheet   string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil, "Keep rows whose column is one of the values (col=a,b); repeatable")
	cmd.Flags().StringArrayVar(&f.ranges, "range", nil, "Keep rows whose numeric column is within bounds (col=min:max); repeatable")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet to read from Excel files (default first sheet)")
}

func (f *selectionFlags) selection() (domainDataset.SelectionState, error) {
	var sel domainDataset.SelectionState
	var err error
	if sel.Categorical, err = parseFilters(f.filters); err != nil {
		return sel, err
	}
	if sel.Ranges, err = parseRanges(f.ranges); err != nil {
		return sel, err
	}
	return sel, nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dashkit-cli",
		Short:         "Explore CSV and Excel datasets from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newPreviewCmd(),
		newDescribeCmd(),
		newChartCmd(),
		newReportCmd(),
	)
	return rootCmd
}

func newPreviewCmd() *cobra.Command {
	var flags selectionFlags
	var rows int
	var output string

	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Show the first rows and column kinds of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			sel, err := flags.selection()
			if err != nil {
				return err
			}
			sel.PreviewRows = rows

			r, err := renderFile(cmd.Context(), args[0], flags.sheet, sel)
			if err != nil {
				return err
			}
			if output == outputTable {
				renderPreviewTable(cmd.OutOrStdout(), r.Preview)
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"name":           r.Name,
				"row_count":      r.RowCount,
				"classification": r.Classification,
				"preview":        r.Preview,
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&rows, "rows", 0, "Number of rows to show (default from PREVIEW_ROWS)")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format: json or table")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	var flags selectionFlags
	var output string

	cmd := &cobra.Command{
		Use:   "describe FILE",
		Short: "Print KPIs and per-column statistics for the filtered view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			sel, err := flags.selection()
			if err != nil {
				return err
			}
			r, err := renderFile(cmd.Context(), args[0], flags.sheet, sel)
			if err != nil {
				return err
			}
			if output == outputTable {
				renderSummaryTables(cmd.OutOrStdout(), r.Summary)
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), r.Summary)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format: json or table")
	return cmd
}

func newChartCmd() *cobra.Command {
	var flags selectionFlags
	var kind, numeric, numeric2, categorical, color, pngPath string
	var bins int

	cmd := &cobra.Command{
		Use:   "chart FILE",
		Short: "Build one chart specification for the filtered view",
		Long: `Build one chart specification for the filtered view and print it as JSON.

Example: dashkit-cli chart sales.csv --kind histogram --numeric price --filter region=north,south --bins 30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := chart.ParseKind(kind)
			if err != nil {
				return errors.InvalidInput(err.Error())
			}
			sel, err := flags.selection()
			if err != nil {
				return err
			}
			sel.Charts = []chart.Kind{k}
			sel.NumericColumn = numeric
			sel.SecondaryNumericColumn = numeric2
			sel.CategoricalColumn = categorical
			sel.Bins = bins
			sel.Color = color

			r, err := renderFile(cmd.Context(), args[0], flags.sheet, sel)
			if err != nil {
				return err
			}
			res := r.Charts[0]
			if res.Err != nil {
				return res.Err
			}

			if pngPath != "" {
				return writePNG(pngPath, res.Chart.Spec)
			}
			return writeJSON(cmd.OutOrStdout(), res.Chart)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&kind, "kind", "", "Chart kind: histogram, boxplot, line, scatter, count or heatmap")
	cmd.Flags().StringVar(&numeric, "numeric", "", "Numeric column")
	cmd.Flags().StringVar(&numeric2, "numeric2", "", "Second numeric column (scatter y axis)")
	cmd.Flags().StringVar(&categorical, "categorical", "", "Categorical column (count plot)")
	cmd.Flags().IntVar(&bins, "bins", 0, "Histogram bins (default from DEFAULT_BINS)")
	cmd.Flags().StringVar(&color, "color", "", "Chart colour as #RRGGBB")
	cmd.Flags().StringVar(&pngPath, "png", "", "Write a PNG image to this path instead of JSON")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newReportCmd() *cobra.Command {
	var flags selectionFlags
	var format string

	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Render the summary of the filtered view as markdown or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := report.ParseFormat(format)
			if !ok {
				return errors.InvalidInput("format must be markdown or html")
			}
			sel, err := flags.selection()
			if err != nil {
				return err
			}

			r, err := renderFile(cmd.Context(), args[0], flags.sheet, sel)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(report.Render(f, r.Name, r.Summary))
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: markdown or html")
	return cmd
}

// renderFile loads path into a fresh session and renders sel against it
func renderFile(ctx context.Context, path, sheet string, sel domainDataset.SelectionState) (*pipeline.Render, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NotFound(path)
	}
	defer f.Close()

	appConfig, err := config.Load()
	if err != nil {
		return nil, err
	}

	readerConfig := excel.DefaultReaderConfig()
	readerConfig.Sheet = appConfig.Data.XLSXSheet
	if sheet != "" {
		readerConfig.Sheet = sheet
	}
	session := pipeline.NewSession(excel.NewDataReader(readerConfig), pipeline.Options{
		DefaultBins: appConfig.Data.DefaultBins,
		PreviewRows: appConfig.Data.PreviewRows,
	})

	if _, err := session.Load(ctx, f, filepath.Base(path)); err != nil {
		return nil, err
	}
	return session.Render(ctx, sel)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writePNG only touches path once the image has rendered.
func writePNG(path string, spec chart.Spec) error {
	var buf bytes.Buffer
	if err := render.PNG(&buf, spec); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
