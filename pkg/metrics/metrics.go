// Package metrics define las métricas Prometheus de la API. Se registran en el registry por defecto
// al importar el paquete y se exponen en /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "academia"

// ── Persistencia ──────────────────────────────────────────────────────────────

// UnitOfWorkCommitsTotal commits de unidades de trabajo.
// Label result: "ok" | "error".
var UnitOfWorkCommitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uow_commits_total",
		Help:      "Total de commits de unidades de trabajo, por resultado.",
	},
	[]string{"result"},
)

// ── Autenticación ─────────────────────────────────────────────────────────────

// AuthAttemptsTotal intentos de autenticación.
// Labels:
//   - operation: register | login | refresh | logout
//   - result: success | failure | error
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total de operaciones de autenticación, por operación y resultado.",
	},
	[]string{"operation", "result"},
)

// TokenValidationsTotal validaciones de access token.
// Label result: valid | invalid | expired.
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total de validaciones de access token, por resultado.",
	},
	[]string{"result"},
)
