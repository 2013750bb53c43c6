package loads

import (
	"net/http"

	"RCCalc/internal/web"

	"go.uber.org/zap"
)

type Handler struct {
	Log *zap.Logger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := web.DecodeJSON(r, &input); err != nil {
		web.WriteError(w, h.Log, err)
		return
	}
	if input.Combo == "" {
		res, err := All(input.PermanentKN, input.VariableKN, input.Psi2)
		if err != nil {
			web.WriteError(w, h.Log, err)
			return
		}
		web.WriteJSON(w, h.Log, http.StatusOK, res)
		return
	}
	res, err := Calculate(input)
	if err != nil {
		web.WriteError(w, h.Log, err)
		return
	}
	web.WriteJSON(w, h.Log, http.StatusOK, res)
}
