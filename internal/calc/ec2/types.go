package ec2

type ElementType string

const (
	Column  ElementType = "column"
	Footing ElementType = "footing"
)

func (t ElementType) Valid() bool {
	return t == Column || t == Footing
}

type Geometry struct {
	WidthM  float64 `json:"width_m"`
	DepthM  float64 `json:"depth_m"`
	HeightM float64 `json:"height_m"`
}

type LongitudinalBars struct {
	Count      int     `json:"count"`
	DiameterMM float64 `json:"diameter_mm"`
}

type Stirrups struct {
	DiameterMM float64 `json:"diameter_mm"`
	SpacingMM  float64 `json:"spacing_mm"`
	Legs       int     `json:"legs"`
}

type Reinforcement struct {
	Longitudinal LongitudinalBars `json:"longitudinal"`
	Stirrups     Stirrups         `json:"stirrups"`
	CoverMM      float64          `json:"cover_mm"`
}

// Loads are design actions. Moments and shears apply to columns only and
// do not enter the simplified stress model.
type Loads struct {
	AxialKN    float64 `json:"axial_kn"`
	MomentXKNM float64 `json:"moment_x_knm"`
	MomentYKNM float64 `json:"moment_y_knm"`
	ShearXKN   float64 `json:"shear_x_kn"`
	ShearYKN   float64 `json:"shear_y_kn"`
}

type ComplianceCheck struct {
	ReinforcementRatio bool `json:"reinforcement_ratio"`
	MinSpacing         bool `json:"min_spacing"`
	MaxSpacing         bool `json:"max_spacing"`
	Cover              bool `json:"cover"`
	ShearReinforcement bool `json:"shear_reinforcement"`
	Overall            bool `json:"overall"`
}

type StressAnalysis struct {
	NeutralAxisMM        float64 `json:"neutral_axis_mm"`
	CompressionStressMPa float64 `json:"compression_stress_mpa"`
	TensionStressMPa     float64 `json:"tension_stress_mpa"`
	CrackWidthMM         float64 `json:"crack_width_mm"`
	UtilizationPct       float64 `json:"utilization_pct"`
}

type Results struct {
	ConcreteVolumeM3      float64         `json:"concrete_volume_m3"`
	LongitudinalSteelKg   float64         `json:"longitudinal_steel_kg"`
	StirrupSteelKg        float64         `json:"stirrup_steel_kg"`
	TotalSteelKg          float64         `json:"total_steel_kg"`
	ReinforcementRatioPct float64         `json:"reinforcement_ratio_pct"`
	MinReinforcementPct   float64         `json:"min_reinforcement_pct"`
	MaxReinforcementPct   float64         `json:"max_reinforcement_pct"`
	Compliance            ComplianceCheck `json:"compliance"`
	Stresses              *StressAnalysis `json:"stresses,omitempty"`
}

// Input is the request shape used by the HTTP, batch and CLI entry points.
// Materials are referenced by name and resolved against the standard tables.
type Input struct {
	ElementType   ElementType   `json:"element_type"`
	Geometry      Geometry      `json:"geometry"`
	Reinforcement Reinforcement `json:"reinforcement"`
	Concrete      string        `json:"concrete"`
	Steel         string        `json:"steel"`
	Loads         Loads         `json:"loads"`
}
