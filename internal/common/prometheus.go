package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	WaitlistSignupsTotal       = "waitlist_signups_total"
	TaskCompletionsTotal       = "waitlist_task_completions_total"
	LevelUpsTotal              = "waitlist_level_ups_total"
	EmailsTotal                = "waitlist_emails_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "status_code"}),
		WaitlistSignupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: WaitlistSignupsTotal,
			Help: "Count of waitlist signups",
		}, []string{"referred"}),
		TaskCompletionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: TaskCompletionsTotal,
			Help: "Count of first time task completions",
		}, []string{"task_type"}),
		LevelUpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: LevelUpsTotal,
			Help: "Count of level ups by reached level",
		}, []string{"level"}),
		EmailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: EmailsTotal,
			Help: "Count of sent emails",
		}, []string{"kind", "status"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "status_code"}),
	}
)

func IncCounter(name string, labels ...string) {
	if counter, ok := PromCounters[name]; ok {
		counter.WithLabelValues(labels...).Inc()
	}
}
