package batch

import (
	"net/http"

	"RCCalc/internal/calc/ec2"

	"github.com/ansel1/merry"
)

const MaxItems = 500

var ErrBatch = merry.New("invalid batch").WithHTTPCode(http.StatusBadRequest)

type Item struct {
	Name  string    `json:"name"`
	Input ec2.Input `json:"input"`
	Row   int       `json:"-"` // sheet row for workbook uploads
}

type Input struct {
	Items []Item `json:"items"`
}

// ItemResult carries either a response or the reason the row was rejected;
// one bad element does not fail the batch.
type ItemResult struct {
	Row      int           `json:"row"`
	Name     string        `json:"name"`
	Response *ec2.Response `json:"response,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type Result struct {
	Count     int          `json:"count"`
	Compliant int          `json:"compliant"`
	Failed    int          `json:"failed"`
	Results   []ItemResult `json:"results"`
}

func Calculate(in Input) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, ErrBatch.Here().Append("no items")
	}
	if len(in.Items) > MaxItems {
		return Result{}, ErrBatch.Here().Appendf("too many items: %d > %d", len(in.Items), MaxItems)
	}
	out := Result{Results: make([]ItemResult, 0, len(in.Items))}
	for i, item := range in.Items {
		out.add(i+1, item.Name, item.Input)
	}
	return out, nil
}

func (r *Result) add(row int, name string, in ec2.Input) {
	ir := ItemResult{Row: row, Name: name}
	resp, err := ec2.Evaluate(in)
	if err != nil {
		ir.Error = err.Error()
		r.Failed++
	} else {
		ir.Response = &resp
		if resp.Results.Compliance.Overall {
			r.Compliant++
		}
	}
	r.Count++
	r.Results = append(r.Results, ir)
}
