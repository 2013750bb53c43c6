package ec2

import "math"

const (
	// SteelDensity is used for every weight regardless of the grade's
	// declared density.
	SteelDensity = 7850.0 // kg/m3

	// ModularRatio is the fixed Es/Ec ratio of the cracked-section model.
	ModularRatio = 15.0

	MinRatioColumnPct  = 0.1
	MinRatioFootingPct = 0.26
	MaxRatioPct        = 4.0

	MaxStirrupSpacingMM = 300.0
	MinCoverMM          = 20.0
)

// Volume returns the gross concrete volume in m3.
func Volume(g Geometry) float64 {
	return g.WidthM * g.DepthM * g.HeightM
}

// BarArea returns the cross-section of one bar in cm2.
func BarArea(diameterMM float64) float64 {
	return math.Pi * math.Pow(diameterMM/2, 2) / 100
}

// BarWeight returns the weight in kg of one bar of the given length in m.
// The 1e6 divisor matches the published quantity tables.
func BarWeight(diameterMM, lengthM float64) float64 {
	return BarArea(diameterMM) * lengthM * SteelDensity / 1e6
}

// LongitudinalSteelWeight assumes every bar runs the full element height
// with no lap allowance.
func LongitudinalSteelWeight(g Geometry, r Reinforcement) float64 {
	return BarWeight(r.Longitudinal.DiameterMM, g.HeightM) * float64(r.Longitudinal.Count)
}

// StirrupPerimeter is the developed length of one stirrup in m. It turns
// negative when the cover is large relative to the section.
func StirrupPerimeter(g Geometry, r Reinforcement) float64 {
	return 2*(g.WidthM+g.DepthM) - 8*(r.CoverMM/1000)
}

// StirrupCount is ceil(height / spacing). Zero spacing gives +Inf
// (or NaN for zero height); it is returned as a float so that the
// degenerate value propagates.
func StirrupCount(g Geometry, r Reinforcement) float64 {
	return math.Ceil(g.HeightM / (r.Stirrups.SpacingMM / 1000))
}

func StirrupWeight(g Geometry, r Reinforcement) float64 {
	single := BarWeight(r.Stirrups.DiameterMM, StirrupPerimeter(g, r))
	return single * StirrupCount(g, r) * float64(r.Stirrups.Legs)
}

// ReinforcementRatio returns As/Ac in percent.
func ReinforcementRatio(g Geometry, r Reinforcement) float64 {
	concreteArea := g.WidthM * g.DepthM * 10000 // cm2
	steelArea := BarArea(r.Longitudinal.DiameterMM) * float64(r.Longitudinal.Count)
	return steelArea / concreteArea * 100
}

// RatioLimits returns the minimum and maximum reinforcement ratio in percent.
func RatioLimits(t ElementType) (minPct, maxPct float64) {
	if t == Column {
		return MinRatioColumnPct, MaxRatioPct
	}
	return MinRatioFootingPct, MaxRatioPct
}

// CheckMinSpacing is a placeholder: the clear spacing between bars is not
// derived from the arrangement yet, so the check always passes.
// TODO: compute clear bar spacing from BarLayout and compare against
// max(bar diameter, 20 mm).
func CheckMinSpacing(g Geometry, r Reinforcement) bool {
	return true
}

// CheckMaxSpacing limits stirrup spacing to min(300 mm, width).
func CheckMaxSpacing(g Geometry, r Reinforcement) bool {
	limit := math.Min(MaxStirrupSpacingMM, g.WidthM*1000)
	return r.Stirrups.SpacingMM <= limit
}

// CheckCover requires cover >= max(bar diameter, 20 mm).
func CheckCover(r Reinforcement) bool {
	return r.CoverMM >= math.Max(r.Longitudinal.DiameterMM, MinCoverMM)
}

// CheckShear limits stirrup spacing to min(0.75 depth, 300 mm).
func CheckShear(g Geometry, r Reinforcement) bool {
	limit := math.Min(g.DepthM*750, MaxStirrupSpacingMM)
	return r.Stirrups.SpacingMM <= limit
}

// CheckCompliance runs the simplified detailing checks. c is the concrete
// class of the element.
func CheckCompliance(t ElementType, g Geometry, r Reinforcement, c ConcreteClass, ratioPct float64) ComplianceCheck {
	minPct, maxPct := RatioLimits(t)
	cc := ComplianceCheck{
		ReinforcementRatio: ratioPct >= minPct && ratioPct <= maxPct,
		MinSpacing:         CheckMinSpacing(g, r),
		MaxSpacing:         CheckMaxSpacing(g, r),
		Cover:              CheckCover(r),
		ShearReinforcement: CheckShear(g, r),
	}
	cc.Overall = cc.ReinforcementRatio && cc.MinSpacing && cc.MaxSpacing && cc.Cover && cc.ShearReinforcement
	return cc
}

// Stresses is a simplified cracked-section estimate driven by the axial
// force only. Bending moments are ignored and the crack width is a linear
// proxy of the steel stress, not the EN 1992-1-1 7.3 model.
func Stresses(g Geometry, r Reinforcement, l Loads, c ConcreteClass, s SteelGrade) StressAnalysis {
	concreteArea := g.WidthM * g.DepthM * 1e6 // mm2
	steelArea := BarArea(r.Longitudinal.DiameterMM) * float64(r.Longitudinal.Count) * 100

	axial := l.AxialKN * 1000 / concreteArea // MPa

	rhoN := steelArea / concreteArea * ModularRatio
	neutralAxis := g.DepthM * 1000 * (math.Sqrt(rhoN*rhoN+2*rhoN) - rhoN)

	compression := math.Min(axial, c.FcdMPa)
	tension := math.Min(axial*ModularRatio, s.FydMPa)

	return StressAnalysis{
		NeutralAxisMM:        neutralAxis,
		CompressionStressMPa: compression,
		TensionStressMPa:     tension,
		CrackWidthMM:         math.Max(0, tension/s.FykMPa*0.1),
		UtilizationPct:       math.Max(compression/c.FcdMPa, tension/s.FydMPa) * 100,
	}
}

// Calculate runs the complete calculation. It never fails; degenerate
// input produces degenerate numbers. Use Validate first when that matters.
func Calculate(t ElementType, g Geometry, r Reinforcement, c ConcreteClass, s SteelGrade, l Loads) Results {
	longitudinal := LongitudinalSteelWeight(g, r)
	stirrups := StirrupWeight(g, r)
	ratio := ReinforcementRatio(g, r)
	minPct, maxPct := RatioLimits(t)
	st := Stresses(g, r, l, c, s)

	return Results{
		ConcreteVolumeM3:      Volume(g),
		LongitudinalSteelKg:   longitudinal,
		StirrupSteelKg:        stirrups,
		TotalSteelKg:          longitudinal + stirrups,
		ReinforcementRatioPct: ratio,
		MinReinforcementPct:   minPct,
		MaxReinforcementPct:   maxPct,
		Compliance:            CheckCompliance(t, g, r, c, ratio),
		Stresses:              &st,
	}
}
