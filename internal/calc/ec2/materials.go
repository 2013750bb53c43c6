package ec2

import "strings"

type ConcreteClass struct {
	Name    string  `json:"name" yaml:"name"`
	FckMPa  float64 `json:"fck" yaml:"fck"`
	FcdMPa  float64 `json:"fcd" yaml:"fcd"`
	Density float64 `json:"density" yaml:"density"` // kg/m3
}

type SteelGrade struct {
	Name    string  `json:"name" yaml:"name"`
	FykMPa  float64 `json:"fyk" yaml:"fyk"`
	FydMPa  float64 `json:"fyd" yaml:"fyd"`
	Density float64 `json:"density" yaml:"density"` // informational, weights use SteelDensity
}

var concreteClasses = []ConcreteClass{
	{Name: "C20/25", FckMPa: 20, FcdMPa: 13.3, Density: 2400},
	{Name: "C25/30", FckMPa: 25, FcdMPa: 16.7, Density: 2400},
	{Name: "C30/37", FckMPa: 30, FcdMPa: 20.0, Density: 2400},
	{Name: "C35/45", FckMPa: 35, FcdMPa: 23.3, Density: 2400},
	{Name: "C40/50", FckMPa: 40, FcdMPa: 26.7, Density: 2400},
	{Name: "C45/55", FckMPa: 45, FcdMPa: 30.0, Density: 2400},
	{Name: "C50/60", FckMPa: 50, FcdMPa: 33.3, Density: 2400},
}

var steelGrades = []SteelGrade{
	{Name: "S400", FykMPa: 400, FydMPa: 348, Density: 7850},
	{Name: "S500", FykMPa: 500, FydMPa: 435, Density: 7850},
}

var barDiameters = []float64{6, 8, 10, 12, 14, 16, 20, 25, 32, 40}

// Stirrups are picked from the standard list up to this size.
const MaxStirrupDiameterMM = 12

// ConcreteClasses returns a copy of the standard concrete class table.
func ConcreteClasses() []ConcreteClass {
	return append([]ConcreteClass(nil), concreteClasses...)
}

// SteelGrades returns a copy of the standard steel grade table.
func SteelGrades() []SteelGrade {
	return append([]SteelGrade(nil), steelGrades...)
}

func BarDiameters() []float64 {
	return append([]float64(nil), barDiameters...)
}

func StirrupDiameters() []float64 {
	var out []float64
	for _, d := range barDiameters {
		if d <= MaxStirrupDiameterMM {
			out = append(out, d)
		}
	}
	return out
}

// LookupConcrete finds a concrete class by name, ignoring case.
func LookupConcrete(name string) (ConcreteClass, bool) {
	for _, c := range concreteClasses {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c, true
		}
	}
	return ConcreteClass{}, false
}

// LookupSteel finds a steel grade by name, ignoring case.
func LookupSteel(name string) (SteelGrade, bool) {
	for _, s := range steelGrades {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return SteelGrade{}, false
}

func IsStandardDiameter(d float64) bool {
	for _, v := range barDiameters {
		if v == d {
			return true
		}
	}
	return false
}
