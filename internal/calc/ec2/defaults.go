package ec2

const (
	CrackLimitQuasiPermanentMM = 0.3
	CrackLimitFrequentMM       = 0.4
	HighUtilizationPct         = 85.0

	// summary metrics always use the nominal concrete density
	nominalConcreteDensity = 2400.0
)

// Defaults returns a typical starting input for the element type: a
// 300x300 column of 3 m or a 2x2 m footing 0.5 m thick.
func Defaults(t ElementType) Input {
	in := Input{
		ElementType: t,
		Concrete:    "C30/37",
		Steel:       "S500",
		Reinforcement: Reinforcement{
			Stirrups: Stirrups{DiameterMM: 8, SpacingMM: 200, Legs: 2},
			CoverMM:  30,
		},
	}
	if t == Footing {
		in.Geometry = Geometry{WidthM: 2.0, DepthM: 2.0, HeightM: 0.5}
		in.Reinforcement.Longitudinal = LongitudinalBars{Count: 10, DiameterMM: 12}
		in.Loads = Loads{AxialKN: 500}
		return in
	}
	in.ElementType = Column
	in.Geometry = Geometry{WidthM: 0.3, DepthM: 0.3, HeightM: 3.0}
	in.Reinforcement.Longitudinal = LongitudinalBars{Count: 8, DiameterMM: 16}
	in.Loads = Loads{AxialKN: 1000, MomentXKNM: 50, MomentYKNM: 30, ShearXKN: 25, ShearYKN: 15}
	return in
}

type Summary struct {
	SteelConcreteRatio float64  `json:"steel_concrete_ratio"` // kg steel per kg concrete
	SteelDensityKgM3   float64  `json:"steel_density_kg_m3"`
	CrackLimitQPMM     float64  `json:"crack_limit_qp_mm"`
	CrackLimitFreqMM   float64  `json:"crack_limit_freq_mm"`
	CrackWithinLimit   bool     `json:"crack_within_limit"`
	HighUtilization    bool     `json:"high_utilization"`
	Compliant          bool     `json:"compliant"`
	Message            string   `json:"message"`
	Warnings           []string `json:"warnings,omitempty"`
}

// Summarize derives the display metrics shown next to the results.
func Summarize(res Results) Summary {
	s := Summary{
		SteelConcreteRatio: res.TotalSteelKg / (res.ConcreteVolumeM3 * nominalConcreteDensity),
		SteelDensityKgM3:   res.TotalSteelKg / res.ConcreteVolumeM3,
		CrackLimitQPMM:     CrackLimitQuasiPermanentMM,
		CrackLimitFreqMM:   CrackLimitFrequentMM,
		CrackWithinLimit:   true,
		Compliant:          res.Compliance.Overall,
	}
	if res.Compliance.Overall {
		s.Message = "Calculations completed successfully. Design is Eurocode compliant."
	} else {
		s.Message = "Calculations completed. Please check compliance issues."
	}

	c := res.Compliance
	if !c.ReinforcementRatio {
		s.Warnings = append(s.Warnings, "reinforcement ratio outside limits")
	}
	if !c.MaxSpacing {
		s.Warnings = append(s.Warnings, "stirrup spacing exceeds maximum")
	}
	if !c.Cover {
		s.Warnings = append(s.Warnings, "cover below minimum")
	}
	if !c.ShearReinforcement {
		s.Warnings = append(s.Warnings, "stirrup spacing too large for shear")
	}

	if st := res.Stresses; st != nil {
		s.CrackWithinLimit = st.CrackWidthMM <= CrackLimitQuasiPermanentMM
		s.HighUtilization = st.UtilizationPct > HighUtilizationPct
		if s.HighUtilization {
			s.Warnings = append(s.Warnings, "high utilization, consider more reinforcement or a stronger concrete")
		}
	}
	return s
}
