// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stgeo/pkg/geo/geomfn"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgerror"
	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/require"
)

func runGeoEval(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var env envConfig
	require.NoError(t, envconfig.Process("GEOEVAL_TEST", &env))
	cmd := newRootCmd(env)
	var outBuf, errBuf bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestEvalConstant(t *testing.T) {
	out, _, err := runGeoEval(t, "", `st_distance('POINT (0 0)', 'POINT (3 4)')`)
	require.NoError(t, err)
	require.Equal(t, "5.0\n", out)
}

func TestEvalCSV(t *testing.T) {
	in := "3,4\n-1,0\nNULL,2\n"
	out, _, err := runGeoEval(t, in,
		"--types=float,float",
		`st_distance('POINT (0 0)', st_makepoint(@1, @2))`)
	require.NoError(t, err)
	require.Equal(t, "5.0\n1.0\nNaN\n", out)

	in = "\"POINT(1 2)\"\n\"LINESTRING(0 0,1 1)\"\n"
	out, _, err = runGeoEval(t, in, "--types=string", `st_geomfromtext(@1)`)
	require.NoError(t, err)
	require.Equal(t, "'POINT (1 2)'\n'LINESTRING (0 0, 1 1)'\n", out)
}

func TestEvalRowError(t *testing.T) {
	_, _, err := runGeoEval(t, "1,1\n200,0\n", "--types=float,float", `st_makepoint(@1, @2)`)
	require.True(t, errors.Is(err, geomfn.ErrCoordinateOutOfRange))
	full := pgerror.FullError(err)
	require.Contains(t, full, "ERROR: longitude must be in [-180.0..180.0] range")
	require.Contains(t, full, "SQLSTATE: 22003")
	require.Contains(t, full, "POSITION: 13")
	require.Contains(t, full, "DETAIL: while evaluating row 2")
}

func TestEvalBadField(t *testing.T) {
	_, _, err := runGeoEval(t, "abc\n", "--types=float", `st_makepoint(@1, 0.0)`)
	require.Equal(t, pgcode.InvalidParameterValue, pgerror.GetPGCode(err))
	require.Contains(t, pgerror.FullError(err), `could not parse "abc" as type float`)
}

func TestExplain(t *testing.T) {
	out, _, err := runGeoEval(t, "", "--explain", `ST_Distance('POINT (0 0)', 'POINT (1 1)')`)
	require.NoError(t, err)
	require.Equal(t, "st_distance('POINT (0 0)', 'POINT (1 1)')\nconstant invocation, returns float\n", out)

	out, _, err = runGeoEval(t, "", "--explain",
		"--set", "sql.spatial.constant_folding.enabled=false",
		`st_distance('POINT (0 0)', 'POINT (1 1)')`)
	require.NoError(t, err)
	require.Equal(t, "st_distance('POINT (0 0)', 'POINT (1 1)')\nrow-bound invocation, returns float\n", out)
}

func TestSettingsAndMetrics(t *testing.T) {
	out, errOut, err := runGeoEval(t, "", "--metrics",
		"--set", "sql.spatial.wkt_max_decimal_digits=2",
		`st_makepoint(1.23456, -2.5)`)
	require.NoError(t, err)
	require.Equal(t, "'POINT (1.23 -2.5)'\n", out)
	require.Contains(t, errOut, "geo_wkt_write_total 1")
	require.Contains(t, errOut, "geo_wkt_parse_total 0")

	_, _, err = runGeoEval(t, "", "--set", "sql.spatial.wkt_max_decimal_digits", `st_makepoint(0.0, 0.0)`)
	require.ErrorContains(t, err, "expected key=value")

	_, _, err = runGeoEval(t, "", "--set", "no.such.setting=1", `st_makepoint(0.0, 0.0)`)
	require.ErrorContains(t, err, "unknown setting")
}

func TestBindErrors(t *testing.T) {
	_, _, err := runGeoEval(t, "", `st_makepoint(0.0, 91.0)`)
	require.Equal(t, "ERROR: latitude must be in [-90.0..90.0] range\nSQLSTATE: 22003\nPOSITION: 18",
		pgerror.FullError(err))

	_, _, err = runGeoEval(t, "", `st_nope(1.0)`)
	require.Equal(t, pgcode.UndefinedFunction, pgerror.GetPGCode(err))

	_, _, err = runGeoEval(t, "", "--types=geography", `st_geomfromtext(@1)`)
	require.Equal(t, pgcode.DatatypeMismatch, pgerror.GetPGCode(err))

	_, _, err = runGeoEval(t, "", `st_geomfromtext(`)
	require.Equal(t, pgcode.Syntax, pgerror.GetPGCode(err))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("GEOEVAL_TEST_LOG_FORMAT", "json")
	t.Setenv("GEOEVAL_TEST_SETTINGS", "sql.spatial.constant_folding.enabled=false")
	var env envConfig
	require.NoError(t, envconfig.Process("GEOEVAL_TEST", &env))
	require.Equal(t, "json", env.LogFormat)
	require.Equal(t, "warning", env.LogLevel)
	require.Equal(t, []string{"sql.spatial.constant_folding.enabled=false"}, env.Settings)

	out, _, err := runGeoEval(t, "", "--explain", `st_makepoint(1.0, 2.0)`)
	require.NoError(t, err)
	require.Contains(t, out, "row-bound invocation")

	_, _, err = runGeoEval(t, "", "--log-format=yaml", `st_makepoint(1.0, 2.0)`)
	require.ErrorContains(t, err, `unknown log format "yaml"`)
}
