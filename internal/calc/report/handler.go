package report

import (
	"bytes"
	"net/http"
	"time"

	"RCCalc/internal/calc/ec2"
	"RCCalc/internal/metrics"
	"RCCalc/internal/web"

	"github.com/ansel1/merry"
	"go.uber.org/zap"
)

type Input struct {
	Meta
	Element ec2.Input `json:"element"`
}

type Handler struct {
	Log *zap.Logger
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := web.DecodeJSON(r, &input); err != nil {
		web.WriteError(w, h.Log, err)
		return
	}
	resp, err := ec2.Evaluate(input.Element)
	if err != nil {
		web.WriteError(w, h.Log, err)
		return
	}

	// buffered so a rendering failure can still produce an error status
	var buf bytes.Buffer
	if err := Write(&buf, input.Meta, resp, time.Now()); err != nil {
		web.WriteError(w, h.Log, merry.Prepend(err, "report generation"))
		return
	}
	metrics.ReportsTotal.WithLabelValues("pdf").Inc()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	w.Write(buf.Bytes())
}
