package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"RCCalc/internal/calc/ec2"

	"github.com/phpdave11/gofpdf"
)

type Meta struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

const (
	pageMarginMM = 15.0
	sketchSizeMM = 70.0
)

// Write renders a one-page calculation report as PDF.
func Write(out io.Writer, meta Meta, resp ec2.Response, now time.Time) error {
	if meta.Title == "" {
		meta.Title = "Reinforced Concrete Element Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, meta.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, fmt.Sprintf("Project: %s", meta.Project))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Author: %s", meta.Author))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Date: %s", now.Format("2006-01-02")))
	pdf.Ln(8)

	in := resp.Input
	res := resp.Results
	sketchTop := pdf.GetY()

	section(pdf, "Input")
	row(pdf, "Element", string(in.ElementType))
	row(pdf, "Section b x h x L", fmt.Sprintf("%.2f x %.2f x %.2f m", in.Geometry.WidthM, in.Geometry.DepthM, in.Geometry.HeightM))
	row(pdf, "Concrete / steel", fmt.Sprintf("%s / %s", in.Concrete, in.Steel))
	row(pdf, "Main bars", fmt.Sprintf("%d x d%g mm", in.Reinforcement.Longitudinal.Count, in.Reinforcement.Longitudinal.DiameterMM))
	st := in.Reinforcement.Stirrups
	row(pdf, "Stirrups", fmt.Sprintf("d%g / %g mm, %d legs", st.DiameterMM, st.SpacingMM, st.Legs))
	row(pdf, "Cover", fmt.Sprintf("%g mm", in.Reinforcement.CoverMM))
	row(pdf, "Axial force", fmt.Sprintf("%.1f kN", in.Loads.AxialKN))
	if in.ElementType == ec2.Column {
		row(pdf, "Moments x / y", fmt.Sprintf("%.1f / %.1f kNm", in.Loads.MomentXKNM, in.Loads.MomentYKNM))
		row(pdf, "Shears x / y", fmt.Sprintf("%.1f / %.1f kN", in.Loads.ShearXKN, in.Loads.ShearYKN))
	}

	sketch(pdf, resp.Layout, 210-pageMarginMM-sketchSizeMM, sketchTop)
	pdf.Ln(4)

	section(pdf, "Quantities")
	row(pdf, "Concrete volume", fmt.Sprintf("%.3f m3", res.ConcreteVolumeM3))
	row(pdf, "Longitudinal steel", fmt.Sprintf("%.2f kg", res.LongitudinalSteelKg))
	row(pdf, "Stirrups", fmt.Sprintf("%.2f kg", res.StirrupSteelKg))
	row(pdf, "Total steel", fmt.Sprintf("%.2f kg", res.TotalSteelKg))
	row(pdf, "Reinforcement ratio", fmt.Sprintf("%.3f %% (min %.2f, max %.1f)",
		res.ReinforcementRatioPct, res.MinReinforcementPct, res.MaxReinforcementPct))
	row(pdf, "Steel density", fmt.Sprintf("%.1f kg/m3", resp.Summary.SteelDensityKgM3))
	pdf.Ln(4)

	section(pdf, "Eurocode 2 checks")
	c := res.Compliance
	row(pdf, "Reinforcement ratio", okFail(c.ReinforcementRatio))
	row(pdf, "Minimum spacing", okFail(c.MinSpacing)+" (not evaluated)")
	row(pdf, "Maximum spacing", okFail(c.MaxSpacing))
	row(pdf, "Cover", okFail(c.Cover))
	row(pdf, "Shear reinforcement", okFail(c.ShearReinforcement))
	pdf.SetFont("Helvetica", "B", 10)
	row(pdf, "Overall", okFail(c.Overall))
	pdf.Ln(4)

	if s := res.Stresses; s != nil {
		section(pdf, "Stresses (simplified)")
		row(pdf, "Neutral axis", fmt.Sprintf("%.2f mm", s.NeutralAxisMM))
		row(pdf, "Concrete compression", fmt.Sprintf("%.2f MPa", s.CompressionStressMPa))
		row(pdf, "Steel tension", fmt.Sprintf("%.2f MPa", s.TensionStressMPa))
		row(pdf, "Crack width", fmt.Sprintf("%.3f mm (limit %.1f / %.1f mm)",
			s.CrackWidthMM, resp.Summary.CrackLimitQPMM, resp.Summary.CrackLimitFreqMM))
		row(pdf, "Utilization", fmt.Sprintf("%.1f %%", s.UtilizationPct))
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, resp.Summary.Message, "", "L", false)
	for _, w := range resp.Summary.Warnings {
		pdf.MultiCell(0, 5, "- "+w, "", "L", false)
	}
	if meta.Notes != "" {
		pdf.Ln(3)
		pdf.MultiCell(0, 5, meta.Notes, "", "L", false)
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, "Preliminary design aid based on simplified EN 1992-1-1 rules. "+
		"Verify with a complete structural analysis.", "", "L", false)

	return pdf.Output(out)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, title)
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
}

func row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(50, 5, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, value, "", 1, "L", false, 0, "")
}

func okFail(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAIL"
}

// sketch draws the section outline, the cover line and the bars in a
// square box at (x, y).
func sketch(pdf *gofpdf.Fpdf, l ec2.Layout, x, y float64) {
	if l.WidthM <= 0 || l.DepthM <= 0 {
		return
	}
	scale := sketchSizeMM / math.Max(l.WidthM, l.DepthM)
	w, h := l.WidthM*scale, l.DepthM*scale
	// model y grows upwards, page y downwards
	px := func(p ec2.Point) (float64, float64) {
		return x + p.X*scale, y + h - p.Y*scale
	}

	pdf.SetDrawColor(139, 115, 85)
	pdf.SetFillColor(225, 225, 220)
	pdf.SetLineWidth(0.5)
	pdf.Rect(x, y, w, h, "FD")

	cover := l.CoverM * scale
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.2)
	pdf.SetDashPattern([]float64{1, 1}, 0)
	pdf.Rect(x+cover, y+cover, w-2*cover, h-2*cover, "D")
	pdf.SetDashPattern([]float64{}, 0)

	pdf.SetDrawColor(60, 60, 70)
	pdf.SetFillColor(60, 60, 70)
	radius := math.Max(l.BarDiameterMM/2000*scale, 0.4)
	for _, b := range l.Bars {
		cx, cy := px(b)
		pdf.Circle(cx, cy, radius, "F")
	}
	pdf.SetLineWidth(math.Max(radius, 0.2))
	for _, s := range l.Mesh {
		x1, y1 := px(s.From)
		x2, y2 := px(s.To)
		pdf.Line(x1, y1, x2, y2)
	}

	pdf.SetLineWidth(0.2)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(x+w/2-5, y+h+5, fmt.Sprintf("%.2f m", l.WidthM))
	pdf.TransformBegin()
	pdf.TransformRotate(90, x-3, y+h/2+5)
	pdf.Text(x-3, y+h/2+5, fmt.Sprintf("%.2f m", l.DepthM))
	pdf.TransformEnd()
}
