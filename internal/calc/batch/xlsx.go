package batch

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"RCCalc/internal/calc/ec2"

	"github.com/ansel1/merry"
	"github.com/xuri/excelize/v2"
)

// Input sheet columns. Everything after height_m is optional and falls
// back to the defaults of the element type.
var inputHeader = []string{
	"name", "element_type", "width_m", "depth_m", "height_m",
	"bar_count", "bar_diameter_mm", "stirrup_diameter_mm", "stirrup_spacing_mm", "stirrup_legs", "cover_mm",
	"concrete", "steel", "axial_kn", "moment_x_knm", "moment_y_knm", "shear_x_kn", "shear_y_kn",
}

const minColumns = 5

var resultHeader = []string{
	"row", "name", "element_type", "concrete_m3", "longitudinal_kg", "stirrups_kg", "total_kg",
	"ratio_pct", "min_pct", "max_pct", "ratio", "min_spacing", "max_spacing", "cover", "shear", "overall",
	"utilization_pct", "crack_mm", "error",
}

const resultSheet = "Results"

// ReadXLSX parses the first sheet of a workbook into batch items. The first
// row is a header and is skipped, as are blank rows. Each item carries its
// sheet row number. Rows that cannot be parsed still produce an item,
// paired with its error.
func ReadXLSX(r io.Reader) ([]Item, []error, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, ErrBatch.Here().Append("not an xlsx workbook")
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, merry.Wrap(err)
	}
	if len(rows) < 2 {
		return nil, nil, ErrBatch.Here().Append("empty sheet")
	}

	items := make([]Item, 0, len(rows)-1)
	rowErrs := make([]error, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		item, err := parseRow(rows[i])
		item.Row = i + 1
		items = append(items, item)
		if err != nil {
			err = merry.Prependf(err, "row %d", i+1)
		}
		rowErrs = append(rowErrs, err)
	}
	return items, rowErrs, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string) (Item, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	if len(row) < minColumns {
		return Item{Name: cell(0)}, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(row))
	}

	et := ec2.ElementType(strings.ToLower(cell(1)))
	in := ec2.Defaults(et)
	in.ElementType = et
	item := Item{Name: cell(0)}

	var err error
	num := func(i int, dst *float64) {
		if err != nil || cell(i) == "" {
			return
		}
		v, e := toFloat(cell(i))
		if e != nil {
			err = fmt.Errorf("%s: %v", inputHeader[i], e)
			return
		}
		*dst = v
	}
	integer := func(i int, dst *int) {
		if err != nil || cell(i) == "" {
			return
		}
		v, e := toFloat(cell(i))
		if e != nil {
			err = fmt.Errorf("%s: %v", inputHeader[i], e)
			return
		}
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			err = fmt.Errorf("%s: must be a whole number, got %s", inputHeader[i], cell(i))
			return
		}
		*dst = int(v)
	}

	num(2, &in.Geometry.WidthM)
	num(3, &in.Geometry.DepthM)
	num(4, &in.Geometry.HeightM)
	integer(5, &in.Reinforcement.Longitudinal.Count)
	num(6, &in.Reinforcement.Longitudinal.DiameterMM)
	num(7, &in.Reinforcement.Stirrups.DiameterMM)
	num(8, &in.Reinforcement.Stirrups.SpacingMM)
	integer(9, &in.Reinforcement.Stirrups.Legs)
	num(10, &in.Reinforcement.CoverMM)
	if s := cell(11); s != "" {
		in.Concrete = s
	}
	if s := cell(12); s != "" {
		in.Steel = s
	}
	num(13, &in.Loads.AxialKN)
	num(14, &in.Loads.MomentXKNM)
	num(15, &in.Loads.MomentYKNM)
	num(16, &in.Loads.ShearXKN)
	num(17, &in.Loads.ShearYKN)

	item.Input = in
	return item, err
}

// toFloat accepts both decimal points and decimal commas. Infinities and
// NaN are refused.
func toFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

// WriteXLSX writes the batch result as a single-sheet workbook.
func WriteXLSX(w io.Writer, res Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), resultSheet); err != nil {
		return merry.Wrap(err)
	}
	header := make([]interface{}, len(resultHeader))
	for i, h := range resultHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(resultSheet, "A1", &header); err != nil {
		return merry.Wrap(err)
	}

	for i, ir := range res.Results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return merry.Wrap(err)
		}
		values := resultRow(ir)
		if err := f.SetSheetRow(resultSheet, cell, &values); err != nil {
			return merry.Wrap(err)
		}
	}
	_, err := f.WriteTo(w)
	return merry.Wrap(err)
}

func resultRow(ir ItemResult) []interface{} {
	if ir.Response == nil {
		values := make([]interface{}, len(resultHeader))
		values[0], values[1] = ir.Row, ir.Name
		values[len(values)-1] = ir.Error
		return values
	}
	in, res := ir.Response.Input, ir.Response.Results
	c := res.Compliance
	util, crack := 0.0, 0.0
	if res.Stresses != nil {
		util, crack = res.Stresses.UtilizationPct, res.Stresses.CrackWidthMM
	}
	return []interface{}{
		ir.Row, ir.Name, string(in.ElementType),
		round(res.ConcreteVolumeM3, 3), round(res.LongitudinalSteelKg, 2), round(res.StirrupSteelKg, 2), round(res.TotalSteelKg, 2),
		round(res.ReinforcementRatioPct, 3), res.MinReinforcementPct, res.MaxReinforcementPct,
		okFail(c.ReinforcementRatio), okFail(c.MinSpacing), okFail(c.MaxSpacing), okFail(c.Cover), okFail(c.ShearReinforcement), okFail(c.Overall),
		round(util, 1), round(crack, 3), "",
	}
}

func round(v float64, digits int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', digits, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func okFail(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAIL"
}
