// Package metrics expõe os contadores Prometheus do ciclo de verificação.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector agrega os contadores da varredura de preços
type Collector struct {
	sweepDuration     prometheus.Histogram
	sweepLast         prometheus.Gauge
	lookupSuccess     prometheus.Counter
	lookupFail        prometheus.Counter
	notificationsSent prometheus.Counter
	notificationsFail prometheus.Counter
}

// NewCollector cria o Collector e registra as métricas no registry dado
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "botjogos_sweep_duration_seconds",
			Help:    "Duração de cada varredura completa de preços",
			Buckets: prometheus.DefBuckets,
		}),
		sweepLast: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "botjogos_sweep_last_timestamp_seconds",
			Help: "Timestamp unix da última varredura concluída",
		}),
		lookupSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "botjogos_lookup_success_total",
			Help: "Consultas de preço bem-sucedidas",
		}),
		lookupFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "botjogos_lookup_fail_total",
			Help: "Consultas de preço com falha ou jogo não encontrado",
		}),
		notificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "botjogos_notifications_sent_total",
			Help: "Notificações de preço enviadas com sucesso",
		}),
		notificationsFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "botjogos_notifications_fail_total",
			Help: "Notificações de preço com falha de envio",
		}),
	}

	reg.MustRegister(
		c.sweepDuration,
		c.sweepLast,
		c.lookupSuccess,
		c.lookupFail,
		c.notificationsSent,
		c.notificationsFail,
	)

	return c
}

// RecordSweep registra a conclusão de uma varredura
func (c *Collector) RecordSweep(duration time.Duration) {
	c.sweepDuration.Observe(duration.Seconds())
	c.sweepLast.SetToCurrentTime()
}

// RecordLookupSuccess registra uma consulta de preço bem-sucedida
func (c *Collector) RecordLookupSuccess() {
	c.lookupSuccess.Inc()
}

// RecordLookupFailure registra uma consulta de preço com falha
func (c *Collector) RecordLookupFailure() {
	c.lookupFail.Inc()
}

// RecordNotificationSent registra uma notificação enviada
func (c *Collector) RecordNotificationSent() {
	c.notificationsSent.Inc()
}

// RecordNotificationFailure registra uma falha de envio
func (c *Collector) RecordNotificationFailure() {
	c.notificationsFail.Inc()
}
