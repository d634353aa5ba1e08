// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package geo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stgeo/pkg/settings"
	"github.com/cockroachdb/stgeo/pkg/util/log"
	"github.com/prometheus/client_golang/prometheus"
)

// WKTMaxDecimalDigits limits the number of digits after the decimal point
// written by the geometry text writer.
var WKTMaxDecimalDigits = settings.RegisterIntSetting(
	"sql.spatial.wkt_max_decimal_digits",
	"maximum number of digits after the decimal point in geometry text output; -1 writes every significant digit. "+
		"Any other value rounds coordinates, so the text written may no longer parse back to the same geometry",
	DefaultWKTDecimalDigits,
	settings.IntInRange(-1, 64),
)

// CodecMetrics counts the work done by a WKTCodec.
type CodecMetrics struct {
	Parses      prometheus.Counter
	ParseErrors prometheus.Counter
	Writes      prometheus.Counter
}

// NewCodecMetrics creates unregistered codec metrics.
func NewCodecMetrics() *CodecMetrics {
	return &CodecMetrics{
		Parses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geo_wkt_parse_total",
			Help: "Number of geometry texts parsed.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geo_wkt_parse_errors_total",
			Help: "Number of geometry texts rejected as malformed.",
		}),
		Writes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geo_wkt_write_total",
			Help: "Number of geometries written as text.",
		}),
	}
}

// Register registers every metric with r.
func (m *CodecMetrics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Parses, m.ParseErrors, m.Writes} {
		if err := r.Register(c); err != nil {
			return errors.Wrap(err, "registering geometry codec metrics")
		}
	}
	return nil
}

// WKTCodec reads and writes geometry text, applying the current settings
// and recording metrics. It is safe for concurrent use.
type WKTCodec struct {
	log.AmbientContext

	sv      *settings.Values
	metrics *CodecMetrics
	every   log.EveryN
}

// NewWKTCodec creates a codec. metrics may be nil.
func NewWKTCodec(sv *settings.Values, metrics *CodecMetrics) *WKTCodec {
	if metrics == nil {
		metrics = NewCodecMetrics()
	}
	c := &WKTCodec{sv: sv, metrics: metrics, every: log.Every(10 * time.Second)}
	c.AddLogTag("codec", "wkt")
	return c
}

// Metrics returns the metrics recorded by the codec.
func (c *WKTCodec) Metrics() *CodecMetrics {
	return c.metrics
}

// ParseGeometry parses geometry text. Malformed text is logged, rate
// limited, at the WARNING severity.
func (c *WKTCodec) ParseGeometry(str string) (Geometry, error) {
	c.metrics.Parses.Inc()
	g, err := ParseGeometry(str)
	if err != nil {
		c.metrics.ParseErrors.Inc()
		if c.every.ShouldLog() {
			log.Warningf(c.AnnotateCtx(context.Background()), "rejected geometry text: %v", err)
		}
		return Geometry{}, err
	}
	return g, nil
}

// AppendWKT appends the canonical geometry text of g to buf.
func (c *WKTCodec) AppendWKT(buf []byte, g Geometry) ([]byte, error) {
	c.metrics.Writes.Inc()
	digits := int(WKTMaxDecimalDigits.Get(c.sv))
	return AppendWKT(buf, g, digits)
}
