package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics - счетчики, гистограммы и gauge Prometheus для конвейера геокодирования
type Metrics struct {
	PhotosProcessed prometheus.Counter
	PhotosFailed    prometheus.Counter
	PlacesCreated   *prometheus.CounterVec // labels: level={country,region,county,city}
	WorkerRunning   prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Provider metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: outcome={success,error}
	GeocodeCache       *prometheus.CounterVec   // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeRetries     prometheus.Counter
}

// NewMetrics создает метрики конвейера и регистрирует их в дефолтном регистре Prometheus
func NewMetrics() *Metrics {
	m := &Metrics{
		PhotosProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "photomap",
			Name:      "photos_processed_total",
			Help:      "Total photos successfully geocoded.",
		}),
		PhotosFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "photomap",
			Name:      "photos_failed_total",
			Help:      "Total photos whose geocoding ended in an error state.",
		}),
		PlacesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photomap",
			Name:      "places_upserted_total",
			Help:      "Place find-or-create operations by hierarchy level.",
		}, []string{"level"}),
		WorkerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "photomap",
			Name:      "worker_running",
			Help:      "1 when the background geocoding worker is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "photomap",
			Name:      "batch_size",
			Help:      "Number of photos selected per geocoding batch.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "photomap",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch geocoding cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photomap",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding provider requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photomap",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "photomap",
			Name:      "geocode_api_duration_seconds",
			Help:      "Nominatim request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "photomap",
			Name:      "geocode_retries_total",
			Help:      "Retried reverse geocoding attempts after a provider failure.",
		}),
	}

	prometheus.MustRegister(
		m.PhotosProcessed,
		m.PhotosFailed,
		m.PlacesCreated,
		m.WorkerRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeRetries,
	)

	return m
}

// NewMetricsForTesting создает метрики без регистрации, чтобы параллельные
// тесты не падали с паникой "already registered"
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PhotosProcessed:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "photomap", Name: "photos_processed_total"}),
		PhotosFailed:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "photomap", Name: "photos_failed_total"}),
		PlacesCreated:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "photomap", Name: "places_upserted_total"}, []string{"level"}),
		WorkerRunning:           prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "photomap", Name: "worker_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "photomap", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "photomap", Name: "batch_processing_duration_seconds"}),
		GeocodeRequests:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "photomap", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "photomap", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "photomap", Name: "geocode_api_duration_seconds"}),
		GeocodeRetries:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "photomap", Name: "geocode_retries_total"}),
	}
}
