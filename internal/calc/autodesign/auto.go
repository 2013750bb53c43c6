// Package autodesign picks the lightest standard longitudinal reinforcement
// that passes the detailing checks for a given section.
package autodesign

import (
	"math"
	"net/http"

	"RCCalc/internal/calc/ec2"

	"github.com/ansel1/merry"
)

const (
	DefaultMaxBars = 200

	// EN 1992-1-1 9.5.2(1) recommended minimum for longitudinal bars.
	MinBarDiameterMM = 8.0

	spacingStepMM = 25.0
	coverStepMM   = 5.0
)

var ErrNoDesign = merry.New("no compliant reinforcement found").WithHTTPCode(http.StatusUnprocessableEntity)

// Input takes the section, materials and loads from Element. Its
// longitudinal bars and stirrup spacing are chosen here; stirrup diameter,
// legs and cover are treated as minimums.
type Input struct {
	Element ec2.Input `json:"element"`
	MaxBars int       `json:"max_bars"`
}

type Result struct {
	Response  ec2.Response `json:"response"`
	Evaluated int          `json:"evaluated"`
	Notes     []string     `json:"notes"`
}

// StirrupSpacing returns the largest spacing on a 25 mm grid that meets
// both the maximum spacing and the shear spacing limits.
func StirrupSpacing(g ec2.Geometry) float64 {
	limit := math.Min(ec2.MaxStirrupSpacingMM, math.Min(g.WidthM*1000, g.DepthM*750))
	s := math.Floor(limit/spacingStepMM) * spacingStepMM
	return math.Max(s, spacingStepMM)
}

// Cover rounds max(cover, bar diameter, 20 mm) up to the next 5 mm.
func Cover(minCoverMM, barMM float64) float64 {
	c := math.Max(minCoverMM, math.Max(barMM, ec2.MinCoverMM))
	return math.Ceil(c/coverStepMM) * coverStepMM
}

// StirrupDiameter is the smallest standard stirrup not below the requested
// size or a quarter of the main bar.
func StirrupDiameter(minMM, barMM float64) float64 {
	need := math.Max(minMM, barMM/4)
	for _, d := range ec2.StirrupDiameters() {
		if d >= need {
			return d
		}
	}
	return ec2.MaxStirrupDiameterMM
}

// minClearSpacing follows EN 1992-1-1 8.2(2) without the aggregate term.
func minClearSpacing(barMM float64) float64 {
	return math.Max(barMM, 20)
}

func minBars(t ec2.ElementType) int {
	if t == ec2.Column {
		return 4
	}
	return 2
}

type candidate struct {
	in    ec2.Input
	res   ec2.Results
	total float64
}

func better(a, b candidate) bool {
	const eps = 1e-9
	if math.Abs(a.total-b.total) > eps {
		return a.total < b.total
	}
	ar, br := a.in.Reinforcement.Longitudinal, b.in.Reinforcement.Longitudinal
	if ar.Count != br.Count {
		return ar.Count < br.Count
	}
	return ar.DiameterMM < br.DiameterMM
}

// Design searches every standard diameter and bar count up to MaxBars and
// returns the compliant arrangement with the least total steel.
func Design(in Input) (Result, error) {
	maxBars := in.MaxBars
	if maxBars <= 0 {
		maxBars = DefaultMaxBars
	}
	maxBars = min(maxBars, ec2.MaxBarCount)
	base := in.Element
	t := base.ElementType
	base.Reinforcement.Stirrups.SpacingMM = StirrupSpacing(base.Geometry)
	base.Reinforcement.Longitudinal = ec2.LongitudinalBars{Count: minBars(t), DiameterMM: MinBarDiameterMM}
	if err := ec2.Validate(base); err != nil {
		return Result{}, err
	}
	concrete, _ := ec2.LookupConcrete(base.Concrete)
	steel, _ := ec2.LookupSteel(base.Steel)

	var (
		best      *candidate
		evaluated int
	)
	for _, d := range ec2.BarDiameters() {
		if d < MinBarDiameterMM {
			continue
		}
		for n := minBars(t); n <= maxBars; n++ {
			cand := base
			r := &cand.Reinforcement
			r.Longitudinal = ec2.LongitudinalBars{Count: n, DiameterMM: d}
			r.CoverMM = Cover(base.Reinforcement.CoverMM, d)
			r.Stirrups.DiameterMM = StirrupDiameter(base.Reinforcement.Stirrups.DiameterMM, d)

			evaluated++
			res := ec2.Calculate(t, cand.Geometry, cand.Reinforcement, concrete, steel, cand.Loads)
			if !res.Compliance.Overall {
				// more bars only raise the ratio; once it is over the
				// maximum this diameter is done
				if res.ReinforcementRatioPct > res.MaxReinforcementPct {
					break
				}
				continue
			}
			l := ec2.BarLayout(t, cand.Geometry, cand.Reinforcement)
			if n >= 2 && l.MinClearSpacingMM < minClearSpacing(d) {
				break
			}
			c := candidate{in: cand, res: res, total: res.TotalSteelKg}
			if best == nil || better(c, *best) {
				best = &c
			}
			// heavier counts of the same diameter cannot win
			break
		}
	}
	if best == nil {
		return Result{Evaluated: evaluated}, ErrNoDesign.Here().Appendf("%d arrangements checked", evaluated)
	}

	resp, err := ec2.Evaluate(best.in)
	if err != nil {
		return Result{}, err
	}
	out := Result{Response: resp, Evaluated: evaluated}
	lb := best.in.Reinforcement.Longitudinal
	out.Notes = append(out.Notes, "Lightest compliant arrangement of standard bars.")
	if best.in.Reinforcement.CoverMM > base.Reinforcement.CoverMM {
		out.Notes = append(out.Notes, "Cover increased to suit the bar diameter.")
	}
	if resp.Summary.HighUtilization {
		out.Notes = append(out.Notes, "Utilization is governed by the section and concrete class, not the bars.")
	}
	if lb.Count == maxBars {
		out.Notes = append(out.Notes, "Bar count reached the search limit.")
	}
	return out, nil
}
