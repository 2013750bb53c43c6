package batch

import (
	"bytes"
	"net/http"

	"RCCalc/internal/metrics"
	"RCCalc/internal/web"

	"github.com/ansel1/merry"
	"go.uber.org/zap"
)

const maxUploadSize = 10 << 20 // 10MB

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	Log *zap.Logger
}

func (h *Handler) JSON(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := web.DecodeJSON(r, &input); err != nil {
		web.WriteError(w, h.Log, err)
		return
	}
	res, err := Calculate(input)
	if err != nil {
		web.WriteError(w, h.Log, err)
		return
	}
	observe(res)
	web.WriteJSON(w, h.Log, http.StatusOK, res)
}

// XLSX takes a workbook in the "file" form field and answers with a results
// workbook, or JSON when called with ?format=json.
func (h *Handler) XLSX(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	items, rowErrs, err := ReadXLSX(file)
	if err != nil {
		web.WriteError(w, h.Log, err)
		return
	}
	if len(items) > MaxItems {
		web.WriteError(w, h.Log, ErrBatch.Here().Appendf("too many rows: %d > %d", len(items), MaxItems))
		return
	}

	res := Result{Results: make([]ItemResult, 0, len(items))}
	for i, item := range items {
		if rowErrs[i] != nil {
			res.Count++
			res.Failed++
			res.Results = append(res.Results, ItemResult{Row: item.Row, Name: item.Name, Error: rowErrs[i].Error()})
			continue
		}
		res.add(item.Row, item.Name, item.Input)
	}
	observe(res)

	if r.URL.Query().Get("format") == "json" {
		web.WriteJSON(w, h.Log, http.StatusOK, res)
		return
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, res); err != nil {
		web.WriteError(w, h.Log, merry.Prepend(err, "xlsx export"))
		return
	}
	metrics.ReportsTotal.WithLabelValues("xlsx").Inc()
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\"results.xlsx\"")
	w.Write(buf.Bytes())
}

func observe(res Result) {
	for _, ir := range res.Results {
		if ir.Response == nil {
			metrics.ValidationErrorsTotal.Inc()
			continue
		}
		metrics.ObserveCalculation(string(ir.Response.Input.ElementType), ir.Response.Results.Compliance.Overall)
	}
}

