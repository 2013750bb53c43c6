package ec2

import (
	"math"
	"net/http"
	"strings"

	"github.com/ansel1/merry"
	"github.com/hashicorp/go-multierror"
)

// Magnitude bounds keep every derived quantity finite. They are far outside
// any real element.
const (
	minDimensionM = 0.001
	maxDimensionM = 1000.0
	maxSpacingMM  = 10000.0
	maxCoverMM    = 1000.0
	maxLoadAbs    = 1e9

	MaxBarCount = 1000
)

var (
	ErrInvalidInput    = merry.New("invalid input").WithHTTPCode(http.StatusBadRequest)
	ErrUnknownMaterial = merry.New("unknown material").WithHTTPCode(http.StatusBadRequest)
)

// Validate reports every non-physical value of the input at once. The
// calculator itself accepts anything; this is the service boundary check.
func Validate(in Input) error {
	var errs *multierror.Error
	bad := func(format string, args ...interface{}) {
		errs = multierror.Append(errs, ErrInvalidInput.Here().Appendf(format, args...))
	}

	if !in.ElementType.Valid() {
		bad("element_type must be %q or %q, got %q", Column, Footing, in.ElementType)
	}

	// finite reports NaN and infinities; range checks only run on finite values
	finite := func(name string, v float64) bool {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad("%s must be a finite number, got %g", name, v)
			return false
		}
		return true
	}

	// positive checks a strictly positive value against its bounds
	positive := func(name string, v, lo, hi float64) {
		switch {
		case !finite(name, v):
		case v <= 0:
			bad("%s must be > 0, got %g", name, v)
		case v < lo || v > hi:
			bad("%s must be within [%g, %g], got %g", name, lo, hi, v)
		}
	}

	g := in.Geometry
	positive("width_m", g.WidthM, minDimensionM, maxDimensionM)
	positive("depth_m", g.DepthM, minDimensionM, maxDimensionM)
	positive("height_m", g.HeightM, minDimensionM, maxDimensionM)

	r := in.Reinforcement
	if r.Longitudinal.Count < 1 || r.Longitudinal.Count > MaxBarCount {
		bad("longitudinal count must be within [1, %d], got %d", MaxBarCount, r.Longitudinal.Count)
	}
	if !IsStandardDiameter(r.Longitudinal.DiameterMM) {
		bad("longitudinal diameter %g mm is not a standard bar size", r.Longitudinal.DiameterMM)
	}
	if !IsStandardDiameter(r.Stirrups.DiameterMM) || r.Stirrups.DiameterMM > MaxStirrupDiameterMM {
		bad("stirrup diameter %g mm is not a standard stirrup size", r.Stirrups.DiameterMM)
	}
	positive("stirrup spacing_mm", r.Stirrups.SpacingMM, 1, maxSpacingMM)
	if r.Stirrups.Legs < 1 {
		bad("stirrup legs must be >= 1, got %d", r.Stirrups.Legs)
	}
	if finite("cover_mm", r.CoverMM) && (r.CoverMM < 0 || r.CoverMM > maxCoverMM) {
		bad("cover_mm must be within [0, %g], got %g", maxCoverMM, r.CoverMM)
	}

	load := func(name string, v float64) {
		if finite(name, v) && math.Abs(v) > maxLoadAbs {
			bad("%s must be within ±%g, got %g", name, maxLoadAbs, v)
		}
	}
	l := in.Loads
	load("axial_kn", l.AxialKN)
	load("moment_x_knm", l.MomentXKNM)
	load("moment_y_knm", l.MomentYKNM)
	load("shear_x_kn", l.ShearXKN)
	load("shear_y_kn", l.ShearYKN)

	if _, ok := LookupConcrete(in.Concrete); !ok {
		errs = multierror.Append(errs, ErrUnknownMaterial.Here().Appendf("concrete class %q", in.Concrete))
	}
	if _, ok := LookupSteel(in.Steel); !ok {
		errs = multierror.Append(errs, ErrUnknownMaterial.Here().Appendf("steel grade %q", in.Steel))
	}

	if errs == nil {
		return nil
	}
	errs.ErrorFormat = joinErrors
	return merry.WithHTTPCode(errs, http.StatusBadRequest)
}

func joinErrors(es []error) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// Run validates the input, resolves the materials and calculates.
func Run(in Input) (Results, error) {
	if err := Validate(in); err != nil {
		return Results{}, err
	}
	c, _ := LookupConcrete(in.Concrete)
	s, _ := LookupSteel(in.Steel)
	return Calculate(in.ElementType, in.Geometry, in.Reinforcement, c, s, in.Loads), nil
}
