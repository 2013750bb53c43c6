package history

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"RCCalc/internal/auth"
	"RCCalc/internal/calc/ec2"
	"RCCalc/internal/repo"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]repo.Calculation
	now  time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[uuid.UUID]repo.Calculation{}, now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memRepo) SaveCalculation(_ context.Context, c *repo.Calculation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.now = m.now.Add(time.Minute)
	c.CreatedAt = m.now
	m.rows[c.ID] = *c
	return nil
}

func (m *memRepo) ListCalculations(_ context.Context, userID, limit int) ([]repo.Calculation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repo.Calculation
	for _, c := range m.rows {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) GetCalculation(_ context.Context, userID int, id uuid.UUID) (repo.Calculation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok || c.UserID != userID {
		return repo.Calculation{}, repo.ErrNotFound.Here()
	}
	return c, nil
}

func (m *memRepo) DeleteCalculation(_ context.Context, userID int, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok || c.UserID != userID {
		return repo.ErrNotFound.Here()
	}
	delete(m.rows, id)
	return nil
}

// withUser stands in for auth.Middleware.
func withUser(id int, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id != 0 {
			r = r.WithContext(auth.WithUserID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func newRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/calculations", h.Save).Methods("POST")
	r.HandleFunc("/calculations", h.List).Methods("GET")
	r.HandleFunc("/calculations/{id}", h.Get).Methods("GET")
	r.HandleFunc("/calculations/{id}", h.Delete).Methods("DELETE")
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func TestSaveListGetDelete(t *testing.T) {
	mem := newMemRepo()
	router := newRouter(&Handler{Repo: mem, Log: zap.NewNop()})
	alice := withUser(1, router)

	rec := do(t, alice, http.MethodPost, "/calculations", SaveRequest{Name: " C1 ", Element: ec2.Defaults(ec2.Column)})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var saved Detail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "C1", saved.Name)
	assert.True(t, saved.Compliant)
	assert.Equal(t, "column", saved.ElementType)

	rec = do(t, alice, http.MethodPost, "/calculations", SaveRequest{Name: "F1", Element: ec2.Defaults(ec2.Footing)})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, alice, http.MethodGet, "/calculations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "F1", list[0].Name)
	assert.False(t, list[0].Compliant)

	rec = do(t, alice, http.MethodGet, "/calculations?limit=1", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = do(t, alice, http.MethodGet, "/calculations/"+saved.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got Detail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.InDelta(t, saved.Response.Results.TotalSteelKg, got.Response.Results.TotalSteelKg, 1e-12)
	assert.Len(t, got.Response.Layout.Bars, 8)

	// another user sees nothing
	bob := withUser(2, router)
	assert.Equal(t, http.StatusNotFound, do(t, bob, http.MethodGet, "/calculations/"+saved.ID.String(), nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, bob, http.MethodDelete, "/calculations/"+saved.ID.String(), nil).Code)

	assert.Equal(t, http.StatusNoContent, do(t, alice, http.MethodDelete, "/calculations/"+saved.ID.String(), nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, alice, http.MethodGet, "/calculations/"+saved.ID.String(), nil).Code)
}

func TestSaveRejectsInvalidElement(t *testing.T) {
	mem := newMemRepo()
	h := withUser(1, newRouter(&Handler{Repo: mem, Log: zap.NewNop()}))

	in := ec2.Defaults(ec2.Column)
	in.Geometry.HeightM = 0
	rec := do(t, h, http.MethodPost, "/calculations", SaveRequest{Element: in})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "height_m")
	assert.Empty(t, mem.rows)
}

func TestBadRequests(t *testing.T) {
	h := withUser(1, newRouter(&Handler{Repo: newMemRepo(), Log: zap.NewNop()}))
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/calculations/not-a-uuid", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/calculations?limit=-3", nil).Code)
}

func TestRequiresUser(t *testing.T) {
	h := withUser(0, newRouter(&Handler{Repo: newMemRepo(), Log: zap.NewNop()}))
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/calculations", nil).Code)
}
