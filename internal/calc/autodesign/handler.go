package autodesign

import (
	"net/http"

	"RCCalc/internal/metrics"
	"RCCalc/internal/web"

	"go.uber.org/zap"
)

type Handler struct {
	Log *zap.Logger
}

func (h *Handler) Design(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := web.DecodeJSON(r, &input); err != nil {
		web.WriteError(w, h.Log, err)
		return
	}
	res, err := Design(input)
	if err != nil {
		web.WriteError(w, h.Log, err)
		return
	}
	metrics.ObserveCalculation(string(input.Element.ElementType), res.Response.Summary.Compliant)
	web.WriteJSON(w, h.Log, http.StatusOK, res)
}
