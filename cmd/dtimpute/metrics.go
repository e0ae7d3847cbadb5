package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	reg         *prometheus.Registry
	fits        *prometheus.CounterVec
	duration    prometheus.Histogram
	categorical prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		reg: prometheus.NewRegistry(),
		fits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dtimpute_fits_total",
			Help: "Imputer fits by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dtimpute_fit_duration_seconds",
			Help:    "Time spent fitting and transforming.",
			Buckets: prometheus.DefBuckets,
		}),
		categorical: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dtimpute_categorical_columns",
			Help: "Columns flagged categorical by the last fit.",
		}),
	}
	m.reg.MustRegister(m.fits, m.duration, m.categorical)
	return m
}

func (m *metrics) observe(start time.Time, categorical []bool, err error) {
	m.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.fits.WithLabelValues("error").Inc()
		return
	}
	m.fits.WithLabelValues("ok").Inc()
	n := 0
	for _, c := range categorical {
		if c {
			n++
		}
	}
	m.categorical.Set(float64(n))
}

func (m *metrics) write(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
