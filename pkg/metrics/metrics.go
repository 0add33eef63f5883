// Package metrics expone los colectores Prometheus del pipeline de correo y del
// selector de backend. Todos los métodos aceptan un receptor nil (no-op) para que
// los tests y los componentes opcionales no tengan que inyectarlos.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metrics colectores registrados en un Registerer concreto.
type Metrics struct {
	emailsGenerated    *prometheus.CounterVec
	emailsSent         *prometheus.CounterVec
	complianceFailures *prometheus.CounterVec
	storeBackend       *prometheus.GaugeVec
	backendProbes      *prometheus.CounterVec
}

// New crea y registra los colectores. reg suele ser prometheus.DefaultRegisterer;
// los tests pasan prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		emailsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mycrm_emails_generated_total",
			Help: "Correos generados por resultado (approved, rejected, failed)",
		}, []string{"result"}),
		emailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mycrm_emails_sent_total",
			Help: "Intentos de envío por resultado (sent, transport_error, rejected)",
		}, []string{"result"}),
		complianceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mycrm_compliance_check_failures_total",
			Help: "Revisiones de cumplimiento que no pudieron ejecutarse (no bloquean el envío)",
		}, []string{"check"}),
		storeBackend: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mycrm_store_backend",
			Help: "1 para el backend elegido por tipo de entidad",
		}, []string{"kind", "backend"}),
		backendProbes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mycrm_backend_probes_total",
			Help: "Pruebas de disponibilidad del backend durable por resultado",
		}, []string{"result"}),
	}
	reg.MustRegister(m.emailsGenerated, m.emailsSent, m.complianceFailures, m.storeBackend, m.backendProbes)
	return m
}

// ObserveGenerated registra el resultado de una generación.
func (m *Metrics) ObserveGenerated(result string) {
	if m == nil {
		return
	}
	m.emailsGenerated.WithLabelValues(result).Inc()
}

// ObserveSend registra el resultado de un intento de envío.
func (m *Metrics) ObserveSend(result string) {
	if m == nil {
		return
	}
	m.emailsSent.WithLabelValues(result).Inc()
}

// ObserveComplianceFailure cuenta una revisión que falló al invocar al proveedor.
func (m *Metrics) ObserveComplianceFailure(check string) {
	if m == nil {
		return
	}
	m.complianceFailures.WithLabelValues(check).Inc()
}

// SetStoreBackend marca el backend elegido para kind (y limpia el otro).
func (m *Metrics) SetStoreBackend(kind, backend string) {
	if m == nil {
		return
	}
	for _, b := range []string{"postgres", "memory"} {
		v := 0.0
		if b == backend {
			v = 1
		}
		m.storeBackend.WithLabelValues(kind, b).Set(v)
	}
}

// ResetStoreBackends limpia la elección de todos los tipos (tras un reset del selector).
func (m *Metrics) ResetStoreBackends() {
	if m == nil {
		return
	}
	m.storeBackend.Reset()
}

// ObserveProbe registra el resultado del probe ("available" | "unavailable").
func (m *Metrics) ObserveProbe(result string) {
	if m == nil {
		return
	}
	m.backendProbes.WithLabelValues(result).Inc()
}

// StoreBackendValue valor actual del gauge mycrm_store_backend{kind,backend}.
func (m *Metrics) StoreBackendValue(kind, backend string) float64 {
	if m == nil {
		return 0
	}
	return gaugeValue(m.storeBackend.WithLabelValues(kind, backend))
}

// CounterValue valor actual de un contador del pipeline; name es "generated",
// "sent", "compliance_failures" o "probes".
func (m *Metrics) CounterValue(name, label string) float64 {
	if m == nil {
		return 0
	}
	var vec *prometheus.CounterVec
	switch name {
	case "generated":
		vec = m.emailsGenerated
	case "sent":
		vec = m.emailsSent
	case "compliance_failures":
		vec = m.complianceFailures
	case "probes":
		vec = m.backendProbes
	default:
		return 0
	}
	var out dto.Metric
	if err := vec.WithLabelValues(label).Write(&out); err != nil {
		return 0
	}
	return out.GetCounter().GetValue()
}

func gaugeValue(g prometheus.Gauge) float64 {
	var out dto.Metric
	if err := g.Write(&out); err != nil {
		return 0
	}
	return out.GetGauge().GetValue()
}
