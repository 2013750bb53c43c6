package loads

import (
	"math"
	"net/http"

	"github.com/ansel1/merry"
)

// Combo names an EN 1990 combination of one permanent and one variable action.
type Combo string

const (
	ComboULS          Combo = "ULS"    // 6.10: 1.35 G + 1.5 Q
	ComboSLSChar      Combo = "SLS-CH" // characteristic: G + Q
	ComboSLSQuasiPerm Combo = "SLS-QP" // quasi-permanent: G + psi2 Q
)

// Psi2Default is the quasi-permanent factor for office/residential floors.
const Psi2Default = 0.3

var ErrInvalidLoad = merry.New("invalid load").WithHTTPCode(http.StatusBadRequest)

type Input struct {
	Combo       Combo   `json:"combo"`
	PermanentKN float64 `json:"permanent_kn"`
	VariableKN  float64 `json:"variable_kn"`
	Psi2        *float64 `json:"psi2,omitempty"` // nil means Psi2Default
}

type Result struct {
	DesignAxialKN float64 `json:"design_axial_kn"`
	ComboName     string  `json:"combo_name"`
	GammaG        float64 `json:"gamma_g"`
	GammaQ        float64 `json:"gamma_q"`
	Notes         string  `json:"notes"`
}

func Calculate(in Input) (Result, error) {
	if !(in.PermanentKN >= 0 && in.VariableKN >= 0) || math.IsInf(in.PermanentKN+in.VariableKN, 0) {
		return Result{}, ErrInvalidLoad.Here().Appendf("actions must be finite and >= 0, got G=%g Q=%g", in.PermanentKN, in.VariableKN)
	}
	psi2 := Psi2Default
	if in.Psi2 != nil {
		psi2 = *in.Psi2
		if math.IsNaN(psi2) || psi2 < 0 || psi2 > 1 {
			return Result{}, ErrInvalidLoad.Here().Appendf("psi2 must be within [0, 1], got %g", psi2)
		}
	}
	gG, gQ, name := factors(in.Combo, psi2)
	return Result{
		DesignAxialKN: in.PermanentKN*gG + in.VariableKN*gQ,
		ComboName:     name,
		GammaG:        gG,
		GammaQ:        gQ,
		Notes:         "Single permanent and single leading variable action.",
	}, nil
}

// All evaluates every supported combination for the same actions. A nil
// psi2 uses Psi2Default.
func All(permanentKN, variableKN float64, psi2 *float64) ([]Result, error) {
	var out []Result
	for _, c := range []Combo{ComboULS, ComboSLSChar, ComboSLSQuasiPerm} {
		res, err := Calculate(Input{Combo: c, PermanentKN: permanentKN, VariableKN: variableKN, Psi2: psi2})
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func factors(c Combo, psi2 float64) (gG, gQ float64, name string) {
	switch c {
	case ComboSLSChar:
		return 1.0, 1.0, "SLS characteristic"
	case ComboSLSQuasiPerm:
		return 1.0, psi2, "SLS quasi-permanent"
	default:
		return 1.35, 1.5, "ULS 6.10"
	}
}
