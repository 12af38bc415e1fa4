package board

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flycenter_board_refresh_total",
		Help: "Refresh cycles by outcome: applied, discarded, error.",
	}, []string{"result"})

	rowDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flycenter_board_row_decisions_total",
		Help: "Per-row reconciliation decisions.",
	}, []string{"decision"})

	renderedRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flycenter_board_rendered_rows",
		Help: "Rows currently on the board.",
	})
)
