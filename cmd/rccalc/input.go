package main

import (
	"encoding/json"
	"os"

	"RCCalc/internal/calc/ec2"

	"github.com/ansel1/merry"
	"github.com/spf13/pflag"
)

// inputFlags overlays command line values on the defaults for the element
// type, or on an input file when one is given.
type inputFlags struct {
	file        string
	elementType string

	width, depth, height float64
	bars                 int
	barDia               float64
	stirrupDia, spacing  float64
	legs                 int
	cover                float64
	concrete, steel      string
	axial, mx, my        float64
	vx, vy               float64
}

func (f *inputFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.file, "input", "i", "", "Read the element from a JSON file")
	fs.StringVarP(&f.elementType, "type", "t", string(ec2.Column), "Element type: column or footing")

	fs.Float64Var(&f.width, "width", 0, "Section width (m)")
	fs.Float64Var(&f.depth, "depth", 0, "Section depth (m)")
	fs.Float64Var(&f.height, "height", 0, "Element height (m)")

	fs.IntVarP(&f.bars, "bars", "n", 0, "Number of longitudinal bars")
	fs.Float64VarP(&f.barDia, "bar-dia", "d", 0, "Longitudinal bar diameter (mm)")
	fs.Float64Var(&f.stirrupDia, "stirrup-dia", 0, "Stirrup diameter (mm)")
	fs.Float64VarP(&f.spacing, "spacing", "s", 0, "Stirrup spacing (mm)")
	fs.IntVar(&f.legs, "legs", 0, "Stirrup legs")
	fs.Float64VarP(&f.cover, "cover", "c", 0, "Concrete cover (mm)")

	fs.StringVar(&f.concrete, "concrete", "", "Concrete class, e.g. C30/37")
	fs.StringVar(&f.steel, "steel", "", "Steel grade, e.g. S500")

	fs.Float64Var(&f.axial, "axial", 0, "Design axial force (kN)")
	fs.Float64Var(&f.mx, "mx", 0, "Moment about x (kNm)")
	fs.Float64Var(&f.my, "my", 0, "Moment about y (kNm)")
	fs.Float64Var(&f.vx, "vx", 0, "Shear along x (kN)")
	fs.Float64Var(&f.vy, "vy", 0, "Shear along y (kN)")
}

func (f *inputFlags) build(fs *pflag.FlagSet) (ec2.Input, error) {
	var in ec2.Input
	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return in, merry.Prepend(err, "read input")
		}
		if err := json.Unmarshal(data, &in); err != nil {
			return in, merry.Prependf(err, "parse %s", f.file)
		}
		if fs.Changed("type") {
			in.ElementType = ec2.ElementType(f.elementType)
		}
	} else {
		t := ec2.ElementType(f.elementType)
		if !t.Valid() {
			return in, merry.Errorf("unknown element type %q", f.elementType)
		}
		in = ec2.Defaults(t)
	}

	setF := func(name string, dst *float64, v float64) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	setI := func(name string, dst *int, v int) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	setS := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}

	setF("width", &in.Geometry.WidthM, f.width)
	setF("depth", &in.Geometry.DepthM, f.depth)
	setF("height", &in.Geometry.HeightM, f.height)
	setI("bars", &in.Reinforcement.Longitudinal.Count, f.bars)
	setF("bar-dia", &in.Reinforcement.Longitudinal.DiameterMM, f.barDia)
	setF("stirrup-dia", &in.Reinforcement.Stirrups.DiameterMM, f.stirrupDia)
	setF("spacing", &in.Reinforcement.Stirrups.SpacingMM, f.spacing)
	setI("legs", &in.Reinforcement.Stirrups.Legs, f.legs)
	setF("cover", &in.Reinforcement.CoverMM, f.cover)
	setS("concrete", &in.Concrete, f.concrete)
	setS("steel", &in.Steel, f.steel)
	setF("axial", &in.Loads.AxialKN, f.axial)
	setF("mx", &in.Loads.MomentXKNM, f.mx)
	setF("my", &in.Loads.MomentYKNM, f.my)
	setF("vx", &in.Loads.ShearXKN, f.vx)
	setF("vy", &in.Loads.ShearYKN, f.vy)
	return in, nil
}
