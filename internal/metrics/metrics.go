// Package metrics reports TLE update job metrics to a Prometheus Pushgateway.
// The update tool is a short-lived cron-style job, so scrape-based exposure
// does not apply; metrics are pushed once at the end of each run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const jobName = "sattrack_tle_update"

// UpdateRun describes one completed (or failed) update invocation.
type UpdateRun struct {
	Satellite    string
	Success      bool
	NameMismatch bool
	Bytes        int
	Elapsed      time.Duration
}

// PushUpdateRun pushes metrics for a single update run to the Pushgateway at
// gatewayURL. Each run replaces the previous push for the job, so the gateway
// always exposes the most recent outcome.
func PushUpdateRun(gatewayURL string, run UpdateRun) error {
	reg := prometheus.NewRegistry()

	labels := prometheus.Labels{"satellite": run.Satellite}

	success := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "sattrack_tle_update_success",
		Help:        "1 if the last TLE update succeeded, 0 otherwise.",
		ConstLabels: labels,
	})
	mismatch := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "sattrack_tle_name_mismatch",
		Help:        "1 if the fetched TLE name did not match the request.",
		ConstLabels: labels,
	})
	bytes := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "sattrack_tle_payload_bytes",
		Help:        "Size of the TLE payload written on the last update.",
		ConstLabels: labels,
	})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "sattrack_tle_update_duration_seconds",
		Help:        "Wall-clock duration of the last TLE update.",
		ConstLabels: labels,
	})
	completed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "sattrack_tle_update_last_run_timestamp_seconds",
		Help:        "Unix timestamp of the last TLE update attempt.",
		ConstLabels: labels,
	})

	reg.MustRegister(success, mismatch, bytes, duration, completed)

	if run.Success {
		success.Set(1)
	}
	if run.NameMismatch {
		mismatch.Set(1)
	}
	bytes.Set(float64(run.Bytes))
	duration.Set(run.Elapsed.Seconds())
	completed.SetToCurrentTime()

	return push.New(gatewayURL, jobName).Gatherer(reg).Push()
}
