package clanstats

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	clandomain "github.com/smallbiznis/clans/internal/clan/domain"
	"gorm.io/gorm"
)

var statuses = []clandomain.Status{
	clandomain.StatusActive,
	clandomain.StatusDeactivated,
	clandomain.StatusDeleted,
}

// Stats owns the clan count gauge. It lives in its own registry so a push
// sends only these series, and is also exposed on /metrics.
type Stats struct {
	registry *prometheus.Registry
	total    *prometheus.GaugeVec
}

type statusCount struct {
	Status string
	Total  int64
}

func New(registerer prometheus.Registerer, serviceName, environment string) *Stats {
	total := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "clans_total",
		Help: "Clans stored, by lifecycle status.",
		ConstLabels: prometheus.Labels{
			"service": serviceName,
			"env":     environment,
		},
	}, []string{"status"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(total)
	if registerer != nil {
		registerer.MustRegister(total)
	}

	return &Stats{registry: registry, total: total}
}

func (s *Stats) Registry() *prometheus.Registry {
	if s == nil {
		return nil
	}
	return s.registry
}

// Refresh recounts clans per status. Statuses with no rows report zero.
func (s *Stats) Refresh(ctx context.Context, db *gorm.DB) error {
	if s == nil || db == nil {
		return nil
	}

	var rows []statusCount
	if err := db.WithContext(ctx).Raw(
		`SELECT status, COUNT(*) AS total FROM clans GROUP BY status`,
	).Scan(&rows).Error; err != nil {
		return err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	for _, status := range statuses {
		s.total.WithLabelValues(string(status)).Set(float64(counts[string(status)]))
	}
	return nil
}
