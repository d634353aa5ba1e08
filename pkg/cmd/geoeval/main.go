// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// geoeval binds a spatial SQL expression and evaluates it once, or once per
// CSV row read from stdin when column types are given. Column values are
// referenced as @1, @2, ...
//
//	echo '3,4' | geoeval --types=float,float "st_distance('POINT (0 0)', st_makepoint(@1, @2))"
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stgeo/pkg/geo"
	"github.com/cockroachdb/stgeo/pkg/settings"
	"github.com/cockroachdb/stgeo/pkg/sql/parser"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgerror"
	_ "github.com/cockroachdb/stgeo/pkg/sql/sem/builtins" // register builtins
	"github.com/cockroachdb/stgeo/pkg/sql/sem/eval"
	"github.com/cockroachdb/stgeo/pkg/sql/sem/tree"
	"github.com/cockroachdb/stgeo/pkg/sql/types"
	"github.com/cockroachdb/stgeo/pkg/util/log"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

// envConfig holds the defaults read from GEOEVAL_* environment variables.
// Flags take precedence.
type envConfig struct {
	LogFormat string   `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string   `envconfig:"LOG_LEVEL" default:"warning"`
	Verbosity int      `envconfig:"VERBOSITY" default:"0"`
	Settings  []string `envconfig:"SETTINGS"`
}

type options struct {
	explain   bool
	metrics   bool
	types     []string
	settings  []string
	logFormat string
	logLevel  string
	verbosity int
}

// nullLiteral is the CSV field value read as NULL.
const nullLiteral = "NULL"

func newRootCmd(env envConfig) *cobra.Command {
	opts := options{
		settings:  env.Settings,
		logFormat: env.LogFormat,
		logLevel:  env.LogLevel,
		verbosity: env.Verbosity,
	}
	flags := pflag.NewFlagSet("geoeval", pflag.ContinueOnError)
	flags.BoolVar(&opts.explain, "explain", false, "print the bound expression instead of evaluating it")
	flags.BoolVar(&opts.metrics, "metrics", false, "print the geometry codec counters to stderr when done")
	flags.StringSliceVar(&opts.types, "types", nil, "types of the CSV input columns (string or float)")
	flags.StringArrayVar(&opts.settings, "set", opts.settings, "override a setting, as key=value; may be repeated")
	flags.StringVar(&opts.logFormat, "log-format", opts.logFormat, "log format: text or json")
	flags.StringVar(&opts.logLevel, "log-level", opts.logLevel, "minimum log severity: info, warning or error")
	flags.IntVar(&opts.verbosity, "verbosity", opts.verbosity, "verbosity of the binding trace")

	cmd := &cobra.Command{
		Use:   "geoeval <expression>",
		Short: "Evaluate a spatial SQL expression",
		Long: "Evaluate a spatial SQL expression once, or once per CSV row read from stdin " +
			"when --types is given. A field spelled " + nullLiteral + " is read as NULL.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args[0], cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().AddFlagSet(flags)
	return cmd
}

func run(
	ctx context.Context, opts options, sql string, stdin io.Reader, stdout, stderr io.Writer,
) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := log.NewLogger(log.Config{
		Format: opts.logFormat,
		Level:  opts.logLevel,
		Output: zapcore.AddSync(stderr),
	})
	if err != nil {
		return err
	}
	defer log.SetLogger(logger)()
	prevVerbosity := log.SetVerbosity(log.Level(opts.verbosity))
	defer log.SetVerbosity(prevVerbosity)

	sv := settings.MakeValues()
	for _, kv := range opts.settings {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			return errors.Newf("invalid setting %q, expected key=value", kv)
		}
		if err := sv.Set(strings.TrimSpace(key), strings.TrimSpace(val)); err != nil {
			return err
		}
	}

	colTypes := make([]*types.T, len(opts.types))
	for i, name := range opts.types {
		typ, err := typeByName(name)
		if err != nil {
			return err
		}
		colTypes[i] = typ
	}

	registry := prometheus.NewRegistry()
	metrics := geo.NewCodecMetrics()
	if err := metrics.Register(registry); err != nil {
		return err
	}
	evalCtx := eval.Context{
		Context:     ctx,
		Settings:    sv,
		Codec:       geo.NewWKTCodec(sv, metrics),
		ColumnTypes: colTypes,
	}

	expr, err := parser.ParseExpr(sql)
	if err != nil {
		return err
	}
	typed, err := eval.TypeCheck(&evalCtx, expr)
	if err != nil {
		return err
	}

	if opts.explain {
		kind := "row-bound"
		if typed.IsConstant() {
			kind = "constant"
		}
		fmt.Fprintf(stdout, "%s\n%s invocation, returns %s\n", tree.AsString(typed), kind, typed.ResolvedType())
		return nil
	}

	if len(colTypes) == 0 {
		if err := evalRow(stdout, typed, nil /* row */); err != nil {
			return err
		}
	} else if err := evalCSV(ctx, stdin, stdout, typed, colTypes); err != nil {
		return err
	}

	if opts.metrics {
		return printMetrics(stderr, registry)
	}
	return nil
}

func evalCSV(
	ctx context.Context, in io.Reader, out io.Writer, expr tree.TypedExpr, colTypes []*types.T,
) error {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(colTypes)
	r.ReuseRecord = true
	row := make(tree.Datums, len(colTypes))
	n := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return pgerror.Wrap(err, pgcode.InvalidParameterValue, "reading input")
		}
		n++
		for i, field := range record {
			d, err := parseField(field, colTypes[i])
			if err != nil {
				return errors.WithDetailf(err, "row %d, column %d", n, i+1)
			}
			row[i] = d
		}
		if err := evalRow(out, expr, row); err != nil {
			return errors.WithDetailf(err, "while evaluating row %d", n)
		}
	}
	log.Infof(ctx, "evaluated %d rows", n)
	return nil
}

func evalRow(out io.Writer, expr tree.TypedExpr, row tree.Datums) error {
	d, err := expr.Eval(row)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, tree.AsString(d))
	return err
}

func parseField(field string, typ *types.T) (tree.Datum, error) {
	if field == nullLiteral {
		return tree.DNull, nil
	}
	switch typ.Family() {
	case types.StringFamily:
		return tree.NewDString(field), nil
	case types.FloatFamily:
		f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, pgerror.Newf(pgcode.InvalidParameterValue, "could not parse %q as type float", field)
		}
		return tree.NewDFloat(tree.DFloat(f)), nil
	default:
		return nil, errors.AssertionFailedf("unsupported column type %s", typ)
	}
}

func typeByName(name string) (*types.T, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "text", "varchar":
		return types.String, nil
	case "float", "float8", "double":
		return types.Float, nil
	default:
		return nil, pgerror.Newf(pgcode.DatatypeMismatch, "unsupported column type %q", name)
	}
}

func printMetrics(w io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(w, "%s %g\n", mf.GetName(), m.GetCounter().GetValue())
		}
	}
	return nil
}

func main() {
	var env envConfig
	if err := envconfig.Process("GEOEVAL", &env); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := newRootCmd(env).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, pgerror.FullError(err))
		os.Exit(1)
	}
}
