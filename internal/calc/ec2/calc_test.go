package ec2

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func columnFixture() (Geometry, Reinforcement, ConcreteClass, SteelGrade, Loads) {
	in := Defaults(Column)
	c, _ := LookupConcrete(in.Concrete)
	s, _ := LookupSteel(in.Steel)
	return in.Geometry, in.Reinforcement, c, s, in.Loads
}

func TestVolume(t *testing.T) {
	assert.InDelta(t, 0.27, Volume(Geometry{WidthM: 0.3, DepthM: 0.3, HeightM: 3.0}), 1e-15)
	assert.Equal(t, 0.0, Volume(Geometry{WidthM: 0, DepthM: 0.3, HeightM: 3.0}))
	assert.Less(t, Volume(Geometry{WidthM: -0.3, DepthM: 0.3, HeightM: 3.0}), 0.0)
}

func TestBarAreaAndWeight(t *testing.T) {
	assert.InDelta(t, math.Pi*64/100, BarArea(16), tol)
	assert.InDelta(t, 2.0106, BarArea(16), 1e-4)
	assert.InDelta(t, 0.04735, BarWeight(16, 3.0), 1e-5)
	assert.InDelta(t, BarArea(16)*3.0*7850/1e6, BarWeight(16, 3.0), tol)
}

func TestLongitudinalSteelWeight(t *testing.T) {
	g, r, _, _, _ := columnFixture()
	assert.InDelta(t, 0.3788, LongitudinalSteelWeight(g, r), 1e-4)
	assert.InDelta(t, 8*BarWeight(16, 3.0), LongitudinalSteelWeight(g, r), tol)
}

func TestStirrupWeight(t *testing.T) {
	g, r, _, _, _ := columnFixture()
	r.Stirrups.SpacingMM = 250

	assert.InDelta(t, 0.96, StirrupPerimeter(g, r), tol)
	assert.Equal(t, 12.0, StirrupCount(g, r))
	assert.InDelta(t, BarWeight(8, 0.96)*12*2, StirrupWeight(g, r), tol)
}

func TestStirrupPerimeterCanGoNegative(t *testing.T) {
	g := Geometry{WidthM: 0.1, DepthM: 0.1, HeightM: 1}
	r := Reinforcement{CoverMM: 60, Stirrups: Stirrups{DiameterMM: 8, SpacingMM: 100, Legs: 2}}
	assert.Less(t, StirrupPerimeter(g, r), 0.0)
	assert.Less(t, StirrupWeight(g, r), 0.0)
}

func TestReinforcementRatio(t *testing.T) {
	g, r, _, _, _ := columnFixture()
	ratio := ReinforcementRatio(g, r)
	assert.InDelta(t, 1.787, ratio, 1e-3)

	minPct, maxPct := RatioLimits(Column)
	assert.True(t, ratio >= minPct && ratio <= maxPct)
}

func TestRatioLimits(t *testing.T) {
	minPct, maxPct := RatioLimits(Column)
	assert.Equal(t, 0.1, minPct)
	assert.Equal(t, 4.0, maxPct)

	minPct, maxPct = RatioLimits(Footing)
	assert.Equal(t, 0.26, minPct)
	assert.Equal(t, 4.0, maxPct)
}

func TestCheckComplianceDefaultColumn(t *testing.T) {
	g, r, c, _, _ := columnFixture()
	cc := CheckCompliance(Column, g, r, c, ReinforcementRatio(g, r))
	assert.Equal(t, ComplianceCheck{
		ReinforcementRatio: true,
		MinSpacing:         true,
		MaxSpacing:         true,
		Cover:              true,
		ShearReinforcement: true,
		Overall:            true,
	}, cc)
}

func TestMinSpacingPlaceholderAlwaysPasses(t *testing.T) {
	g := Geometry{WidthM: 0.1, DepthM: 0.1, HeightM: 1}
	r := Reinforcement{Longitudinal: LongitudinalBars{Count: 40, DiameterMM: 40}}
	assert.True(t, CheckMinSpacing(g, r))
}

func TestMaxSpacingFlipsAboveLimit(t *testing.T) {
	g, r, _, _, _ := columnFixture()

	r.Stirrups.SpacingMM = 300
	assert.True(t, CheckMaxSpacing(g, r))
	r.Stirrups.SpacingMM = 301
	assert.False(t, CheckMaxSpacing(g, r))

	// narrow section: the width governs
	g.WidthM = 0.2
	r.Stirrups.SpacingMM = 200
	assert.True(t, CheckMaxSpacing(g, r))
	r.Stirrups.SpacingMM = 201
	assert.False(t, CheckMaxSpacing(g, r))
}

func TestCheckCover(t *testing.T) {
	r := Reinforcement{Longitudinal: LongitudinalBars{DiameterMM: 16}, CoverMM: 20}
	assert.True(t, CheckCover(r))
	r.CoverMM = 19
	assert.False(t, CheckCover(r))

	r.Longitudinal.DiameterMM = 32
	r.CoverMM = 30
	assert.False(t, CheckCover(r))
	r.CoverMM = 32
	assert.True(t, CheckCover(r))
}

func TestCheckShear(t *testing.T) {
	g := Geometry{WidthM: 0.3, DepthM: 0.3, HeightM: 3}
	r := Reinforcement{Stirrups: Stirrups{SpacingMM: 225}}
	assert.True(t, CheckShear(g, r))
	r.Stirrups.SpacingMM = 226
	assert.False(t, CheckShear(g, r))

	g.DepthM = 1.0
	r.Stirrups.SpacingMM = 300
	assert.True(t, CheckShear(g, r))
	r.Stirrups.SpacingMM = 301
	assert.False(t, CheckShear(g, r))
}

func TestStresses(t *testing.T) {
	g, r, c, s, l := columnFixture()
	st := Stresses(g, r, l, c, s)

	assert.InDelta(t, 153.5047, st.NeutralAxisMM, 1e-3)
	assert.InDelta(t, 11.1111, st.CompressionStressMPa, 1e-4)
	assert.InDelta(t, 166.6667, st.TensionStressMPa, 1e-4)
	assert.InDelta(t, 0.03333, st.CrackWidthMM, 1e-5)
	assert.InDelta(t, 55.5556, st.UtilizationPct, 1e-4)
}

func TestStressesCapAtDesignStrength(t *testing.T) {
	g, r, c, s, l := columnFixture()
	l.AxialKN = 10000
	st := Stresses(g, r, l, c, s)

	assert.Equal(t, c.FcdMPa, st.CompressionStressMPa)
	assert.Equal(t, s.FydMPa, st.TensionStressMPa)
	assert.InDelta(t, 100.0, st.UtilizationPct, tol)
	assert.InDelta(t, 435.0/500*0.1, st.CrackWidthMM, tol)
}

func TestStressesIgnoreMoments(t *testing.T) {
	g, r, c, s, l := columnFixture()
	a := Stresses(g, r, l, c, s)
	l.MomentXKNM, l.MomentYKNM = 500, 500
	assert.Equal(t, a, Stresses(g, r, l, c, s))
}

func TestCrackWidthNeverNegative(t *testing.T) {
	g, r, c, s, l := columnFixture()
	l.AxialKN = -500
	assert.Equal(t, 0.0, Stresses(g, r, l, c, s).CrackWidthMM)
}

func TestCalculate(t *testing.T) {
	g, r, c, s, l := columnFixture()
	res := Calculate(Column, g, r, c, s, l)

	assert.InDelta(t, 0.27, res.ConcreteVolumeM3, 1e-15)
	assert.InDelta(t, res.LongitudinalSteelKg+res.StirrupSteelKg, res.TotalSteelKg, tol)
	assert.Equal(t, 0.1, res.MinReinforcementPct)
	assert.Equal(t, 4.0, res.MaxReinforcementPct)
	assert.True(t, res.Compliance.Overall)
	require.NotNil(t, res.Stresses)
	assert.Equal(t, Stresses(g, r, l, c, s), *res.Stresses)
}

func TestCalculateFooting(t *testing.T) {
	in := Defaults(Footing)
	c, _ := LookupConcrete(in.Concrete)
	s, _ := LookupSteel(in.Steel)
	res := Calculate(Footing, in.Geometry, in.Reinforcement, c, s, in.Loads)

	assert.Equal(t, 0.26, res.MinReinforcementPct)
	assert.InDelta(t, 0.0283, res.ReinforcementRatioPct, 1e-4)
	assert.False(t, res.Compliance.ReinforcementRatio)
	assert.False(t, res.Compliance.Overall)
}

func TestCalculateIsIdempotent(t *testing.T) {
	g, r, c, s, l := columnFixture()
	a := Calculate(Column, g, r, c, s, l)
	b := Calculate(Column, g, r, c, s, l)

	assert.Equal(t, math.Float64bits(a.TotalSteelKg), math.Float64bits(b.TotalSteelKg))
	assert.Equal(t, math.Float64bits(a.ReinforcementRatioPct), math.Float64bits(b.ReinforcementRatioPct))
	assert.Equal(t, a.Compliance, b.Compliance)
	assert.Equal(t, *a.Stresses, *b.Stresses)
}

func TestCalculateZeroSpacingDoesNotPanic(t *testing.T) {
	g, r, c, s, l := columnFixture()
	r.Stirrups.SpacingMM = 0

	var res Results
	require.NotPanics(t, func() { res = Calculate(Column, g, r, c, s, l) })

	assert.True(t, math.IsInf(StirrupCount(g, r), 1))
	assert.True(t, math.IsInf(res.StirrupSteelKg, 1))
	assert.True(t, math.IsInf(res.TotalSteelKg, 1))
	assert.True(t, res.Compliance.MaxSpacing)

	g.HeightM = 0
	assert.True(t, math.IsNaN(StirrupCount(g, r)))
}

func TestCalculateZeroSectionDoesNotPanic(t *testing.T) {
	_, r, c, s, l := columnFixture()
	g := Geometry{}
	require.NotPanics(t, func() {
		res := Calculate(Column, g, r, c, s, l)
		assert.Equal(t, 0.0, res.ConcreteVolumeM3)
		assert.True(t, math.IsInf(res.ReinforcementRatioPct, 1))
	})
}

func TestOverallIsConjunction(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	diameters := BarDiameters()
	concretes := ConcreteClasses()

	for i := 0; i < 2000; i++ {
		et := Column
		if rnd.Intn(2) == 1 {
			et = Footing
		}
		g := Geometry{
			WidthM:  0.1 + rnd.Float64()*2,
			DepthM:  0.1 + rnd.Float64()*2,
			HeightM: 0.2 + rnd.Float64()*5,
		}
		r := Reinforcement{
			Longitudinal: LongitudinalBars{Count: 4 + rnd.Intn(30), DiameterMM: diameters[rnd.Intn(len(diameters))]},
			Stirrups:     Stirrups{DiameterMM: 8, SpacingMM: 50 + rnd.Float64()*400, Legs: 2 + rnd.Intn(3)},
			CoverMM:      10 + rnd.Float64()*60,
		}
		c := concretes[rnd.Intn(len(concretes))]
		cc := CheckCompliance(et, g, r, c, ReinforcementRatio(g, r))

		want := cc.ReinforcementRatio && cc.MinSpacing && cc.MaxSpacing && cc.Cover && cc.ShearReinforcement
		require.Equal(t, want, cc.Overall, "case %d: %+v %+v", i, g, r)
	}
}
