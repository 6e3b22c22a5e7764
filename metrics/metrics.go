package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "session_transcriber"

type Metrics struct {
	reg *prometheus.Registry

	apiCalls       *prometheus.CounterVec
	apiTime        *prometheus.HistogramVec
	transcriptions *prometheus.CounterVec
	words          prometheus.Counter
	utterances     prometheus.Histogram
}

// New builds a registry with the process/Go collectors and the service metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_calls_total",
			Help:      "HTTP API calls by method, path and status.",
		}, []string{"method", "path", "status"}),
		apiTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_call_seconds",
			Help:      "HTTP API call latency.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"method", "path"}),
		transcriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_total",
			Help:      "Transcription attempts by outcome.",
		}, []string{"outcome"}),
		words: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "words_total",
			Help:      "Words received from the provider.",
		}),
		utterances: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "utterances_per_transcription",
			Help:      "Utterances produced per transcription.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiCalls, m.apiTime, m.transcriptions, m.words, m.utterances,
	)
	return m
}

func (m *Metrics) ObserveAPICall(method, path string, status int, d time.Duration) {
	m.apiCalls.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.apiTime.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) ObserveTranscription(words, utterances int) {
	m.transcriptions.WithLabelValues("ok").Inc()
	m.words.Add(float64(words))
	m.utterances.Observe(float64(utterances))
}

func (m *Metrics) ObserveFailure(outcome string) {
	m.transcriptions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry is the registry Handler serves, with process and Go collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }
