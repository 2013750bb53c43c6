// Package history stores evaluated calculations for signed-in users.
package history

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"RCCalc/internal/auth"
	"RCCalc/internal/calc/ec2"
	"RCCalc/internal/metrics"
	"RCCalc/internal/repo"
	"RCCalc/internal/web"

	"github.com/ansel1/merry"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	defaultLimit = 50
	maxLimit     = 200
	maxNameLen   = 200
)

type Handler struct {
	Repo repo.CalculationRepository
	Log  *zap.Logger
}

type SaveRequest struct {
	Name    string    `json:"name"`
	Element ec2.Input `json:"element"`
}

// Entry is a list row; the full response is only returned by Get.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ElementType string    `json:"element_type"`
	Compliant   bool      `json:"compliant"`
	CreatedAt   time.Time `json:"created_at"`
}

type Detail struct {
	Entry
	Response ec2.Response `json:"response"`
}

func toEntry(c repo.Calculation) Entry {
	return Entry{
		ID:          c.ID,
		Name:        c.Name,
		ElementType: c.ElementType,
		Compliant:   c.Compliant,
		CreatedAt:   c.CreatedAt,
	}
}

func userID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return id, ok
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, merry.Prepend(err, "invalid id").WithHTTPCode(http.StatusBadRequest)
	}
	return id, nil
}

// Save evaluates the element and stores input and response together.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req SaveRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, h.Log, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) > maxNameLen {
		http.Error(w, "Name too long", http.StatusBadRequest)
		return
	}

	resp, err := ec2.Evaluate(req.Element)
	if err != nil {
		metrics.ValidationErrorsTotal.Inc()
		web.WriteError(w, h.Log, err)
		return
	}
	input, err := json.Marshal(req.Element)
	if err != nil {
		web.WriteError(w, h.Log, merry.Wrap(err))
		return
	}
	results, err := json.Marshal(resp)
	if err != nil {
		web.WriteError(w, h.Log, merry.Wrap(err))
		return
	}

	c := repo.Calculation{
		UserID:      uid,
		Name:        req.Name,
		ElementType: string(req.Element.ElementType),
		Compliant:   resp.Results.Compliance.Overall,
		Input:       string(input),
		Results:     string(results),
	}
	if err := h.Repo.SaveCalculation(r.Context(), &c); err != nil {
		web.WriteError(w, h.Log, merry.Prepend(err, "save calculation"))
		return
	}
	metrics.ObserveCalculation(c.ElementType, c.Compliant)
	web.WriteJSON(w, h.Log, http.StatusCreated, Detail{Entry: toEntry(c), Response: resp})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLimit)
	}
	list, err := h.Repo.ListCalculations(r.Context(), uid, limit)
	if err != nil {
		web.WriteError(w, h.Log, err)
		return
	}
	out := make([]Entry, 0, len(list))
	for _, c := range list {
		out = append(out, toEntry(c))
	}
	web.WriteJSON(w, h.Log, http.StatusOK, out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		web.WriteError(w, h.Log, err)
		return
	}
	c, err := h.Repo.GetCalculation(r.Context(), uid, id)
	if err != nil {
		web.WriteError(w, h.Log, err)
		return
	}
	d := Detail{Entry: toEntry(c)}
	if err := json.Unmarshal([]byte(c.Results), &d.Response); err != nil {
		web.WriteError(w, h.Log, merry.Prependf(err, "decode calculation %s", id))
		return
	}
	web.WriteJSON(w, h.Log, http.StatusOK, d)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		web.WriteError(w, h.Log, err)
		return
	}
	if err := h.Repo.DeleteCalculation(r.Context(), uid, id); err != nil {
		web.WriteError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
