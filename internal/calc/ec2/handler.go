package ec2

import (
	"net/http"

	"RCCalc/internal/metrics"
	"RCCalc/internal/web"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Response struct {
	Input   Input   `json:"input"`
	Results Results `json:"results"`
	Summary Summary `json:"summary"`
	Layout  Layout  `json:"layout"`
}

type Reference struct {
	ConcreteClasses  []ConcreteClass `json:"concrete_classes"`
	SteelGrades      []SteelGrade    `json:"steel_grades"`
	BarDiameters     []float64       `json:"bar_diameters_mm"`
	StirrupDiameters []float64       `json:"stirrup_diameters_mm"`
}

type Handler struct {
	Log *zap.Logger
}

// Evaluate runs a validated calculation and derives everything the
// result view needs.
func Evaluate(in Input) (Response, error) {
	res, err := Run(in)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Input:   in,
		Results: res,
		Summary: Summarize(res),
		Layout:  BarLayout(in.ElementType, in.Geometry, in.Reinforcement),
	}, nil
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := web.DecodeJSON(r, &input); err != nil {
		web.WriteError(w, h.Log, err)
		return
	}
	resp, err := Evaluate(input)
	if err != nil {
		metrics.ValidationErrorsTotal.Inc()
		web.WriteError(w, h.Log, err)
		return
	}
	metrics.ObserveCalculation(string(input.ElementType), resp.Results.Compliance.Overall)
	if h.Log != nil {
		h.Log.Debug("calculation done",
			zap.String("element_type", string(input.ElementType)),
			zap.Bool("compliant", resp.Results.Compliance.Overall),
			zap.Float64("ratio_pct", resp.Results.ReinforcementRatioPct),
		)
	}
	web.WriteJSON(w, h.Log, http.StatusOK, resp)
}

func (h *Handler) Reference(w http.ResponseWriter, r *http.Request) {
	web.WriteJSON(w, h.Log, http.StatusOK, Reference{
		ConcreteClasses:  ConcreteClasses(),
		SteelGrades:      SteelGrades(),
		BarDiameters:     BarDiameters(),
		StirrupDiameters: StirrupDiameters(),
	})
}

func (h *Handler) Defaults(w http.ResponseWriter, r *http.Request) {
	t := ElementType(mux.Vars(r)["type"])
	if !t.Valid() {
		http.Error(w, "unknown element type", http.StatusNotFound)
		return
	}
	web.WriteJSON(w, h.Log, http.StatusOK, Defaults(t))
}
