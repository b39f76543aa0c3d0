// Package metrics 业务指标（Prometheus）
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apperrors "pet-cafe/backend/pkg/errors"
)

const (
	namespace = "petcafe"
	subsystem = "staffing"
)

// Metrics 写操作与匹配计数器；nil 接收者上的方法均为空操作
type Metrics struct {
	mutations        *prometheus.CounterVec
	mutationDuration *prometheus.HistogramVec
	matches          *prometheus.CounterVec
}

// New 创建并注册指标；reg 为 nil 时只创建不注册
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "mutations_total",
			Help:      "Number of gateway mutations by operation and outcome",
		}, []string{"operation", "outcome"}),
		mutationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "mutation_duration_seconds",
			Help:      "Histogram of gateway mutation duration",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"operation"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "match_results_total",
			Help:      "Number of team match results by schedule classification",
		}, []string{"schedule"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.mutations, m.mutationDuration, m.matches} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// ObserveMutation 记录一次写操作；用法：defer m.ObserveMutation("create_team", time.Now(), &err)
func (m *Metrics) ObserveMutation(operation string, started time.Time, errp *error) {
	if m == nil {
		return
	}
	var err error
	if errp != nil {
		err = *errp
	}
	m.mutations.WithLabelValues(operation, apperrors.KindName(err)).Inc()
	m.mutationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// ObserveMatch 按分类累计匹配结果
func (m *Metrics) ObserveMatch(schedule string) {
	if m == nil {
		return
	}
	m.matches.WithLabelValues(schedule).Inc()
}
