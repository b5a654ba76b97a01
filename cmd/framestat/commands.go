package main

import (
	"fmt"
	"runtime"
	"strconv"
	"text/tabwriter"

	"github.com/apache/arrow-go/v18/arrow/memory"
	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/framestat/pkg/columnar"
	"github.com/ajitpratap0/framestat/pkg/errors"
	"github.com/ajitpratap0/framestat/pkg/frame"
)

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "framestat v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func (a *app) headCommand() *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "head [file]",
		Short: "Print the first rows",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.traced("head", func(cmd *cobra.Command, args []string) error {
			df, err := a.loadFrame(cmd.Context(), args)
			if err != nil {
				return err
			}
			out, err := df.Head(rows)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		}),
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", frame.DefaultHeadRows, "Number of rows to print")
	return cmd
}

func (a *app) describeCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "describe [file]",
		Short: "Summarize every column",
		Long: `Print name, type and row count of every column, plus mean, standard
deviation, median and quartiles for numeric columns.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.traced("describe", func(cmd *cobra.Command, args []string) error {
			df, err := a.loadFrame(cmd.Context(), args)
			if err != nil {
				return err
			}
			summaries, err := df.Describe()
			if err != nil {
				return err
			}

			if asJSON {
				data, err := frame.MarshalSummary(summaries)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "column\tkind\tcount\tmean\tstddev\tmedian\tq25\tq50\tq75")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					s.Name, s.Kind, s.Count,
					cell(s.Mean), cell(s.StdDev), cell(s.Median),
					cell(s.Q25), cell(s.Q50), cell(s.Q75))
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func cell(v *columnar.DataValue) string {
	if v == nil {
		return "-"
	}
	return v.String()
}

func (a *app) statCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stat COLUMN [file]",
		Short: "Print mean, median and standard deviation of a column",
		Args:  cobra.RangeArgs(1, 2),
		RunE: a.traced("stat", func(cmd *cobra.Command, args []string) error {
			df, err := a.loadFrame(cmd.Context(), args[1:])
			if err != nil {
				return err
			}
			column := args[0]

			metrics := []struct {
				name string
				fn   func(string) (columnar.DataValue, error)
			}{
				{"mean", df.Mean},
				{"median", df.Median},
				{"stddev", df.StdDev},
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, m := range metrics {
				v, err := m.fn(column)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\n", m.name, v)
			}
			return tw.Flush()
		}),
	}
}

func (a *app) quantileCommand() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "quantile COLUMN Q [Q...]",
		Short: "Print quantiles of a column, 0 <= Q < 1",
		Long: `Print one or more quantiles of a numeric column. Float columns
interpolate linearly between ranks; integer columns return the nearest-rank
element.`,
		Args: cobra.MinimumNArgs(2),
		RunE: a.traced("quantile", func(cmd *cobra.Command, args []string) error {
			levels := make([]float64, 0, len(args)-1)
			for _, arg := range args[1:] {
				q, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return errors.Wrap(err, errors.ErrorTypeInvalidQuantile, "quantile is not a number").
						WithDetail("value", arg)
				}
				levels = append(levels, q)
			}

			var paths []string
			if input != "" {
				paths = []string{input}
			}
			df, err := a.loadFrame(cmd.Context(), paths)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, q := range levels {
				v, err := df.Quantile(args[0], q)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\n", strconv.FormatFloat(q, 'f', -1, 64), v)
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().StringVarP(&input, "file", "f", "", "Input file (overrides --input)")
	return cmd
}

type schemaField struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	ArrowType string `json:"arrow_type"`
}

func (a *app) schemaCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "schema [file]",
		Short: "Print the inferred column types and their Arrow schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.traced("schema", func(cmd *cobra.Command, args []string) error {
			df, err := a.loadFrame(cmd.Context(), args)
			if err != nil {
				return err
			}
			rec, err := df.ToArrowRecord(memory.NewGoAllocator())
			if err != nil {
				return err
			}
			defer rec.Release()

			cols := df.Columns()
			fields := make([]schemaField, len(cols))
			for i, col := range cols {
				fields[i] = schemaField{
					Name:      col.Name(),
					Kind:      col.Kind().String(),
					ArrowType: rec.Schema().Field(i).Type.String(),
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := gojson.MarshalIndent(fields, "", "  ")
				if err != nil {
					return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode schema")
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "column\tkind\tarrow")
			for _, f := range fields {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Kind, f.ArrowType)
			}
			fmt.Fprintf(tw, "rows: %d\n", rec.NumRows())
			return tw.Flush()
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the schema as JSON")
	return cmd
}
