package strategymap

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Load results recorded by Metrics
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics records strategy map loads. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	loadsTotal      *prometheus.CounterVec
	strategies      prometheus.Gauge
	lastSuccessTime prometheus.Gauge
}

// NewMetrics creates the strategy map collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "covertmark_strategy_map_loads_total",
				Help: "Total number of strategy map loads by result",
			},
			[]string{"result"},
		),
		strategies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "covertmark_strategy_map_strategies",
			Help: "Number of strategies in the current strategy map",
		}),
		lastSuccessTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "covertmark_strategy_map_last_success_timestamp_seconds",
			Help: "Unix time of the last successful strategy map load",
		}),
	}

	collectors := []prometheus.Collector{m.loadsTotal, m.strategies, m.lastSuccessTime}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeSuccess(r *Registry, at time.Time) {
	if m == nil {
		return
	}
	m.loadsTotal.WithLabelValues(ResultSuccess).Inc()
	m.strategies.Set(float64(r.Len()))
	m.lastSuccessTime.Set(float64(at.Unix()))
}

func (m *Metrics) observeFailure() {
	if m == nil {
		return
	}
	m.loadsTotal.WithLabelValues(ResultFailure).Inc()
}
