package loads

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ansel1/merry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	res, err := Calculate(Input{Combo: ComboULS, PermanentKN: 500, VariableKN: 200})
	require.NoError(t, err)
	assert.InDelta(t, 975.0, res.DesignAxialKN, 1e-9)
	assert.Equal(t, "ULS 6.10", res.ComboName)

	res, err = Calculate(Input{Combo: ComboSLSChar, PermanentKN: 500, VariableKN: 200})
	require.NoError(t, err)
	assert.InDelta(t, 700.0, res.DesignAxialKN, 1e-9)

	res, err = Calculate(Input{Combo: ComboSLSQuasiPerm, PermanentKN: 500, VariableKN: 200})
	require.NoError(t, err)
	assert.InDelta(t, 560.0, res.DesignAxialKN, 1e-9)

	res, err = Calculate(Input{Combo: ComboSLSQuasiPerm, PermanentKN: 500, VariableKN: 200, Psi2: ptr(0.6)})
	require.NoError(t, err)
	assert.InDelta(t, 620.0, res.DesignAxialKN, 1e-9)
}

func ptr(v float64) *float64 { return &v }

func TestCalculateExplicitZeroPsi2(t *testing.T) {
	res, err := Calculate(Input{Combo: ComboSLSQuasiPerm, PermanentKN: 100, VariableKN: 50, Psi2: ptr(0)})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, res.DesignAxialKN, 1e-9)
	assert.Equal(t, 0.0, res.GammaQ)
}

func TestCalculateRejectsBadPsi2(t *testing.T) {
	for _, v := range []float64{-0.1, 1.5, math.NaN()} {
		_, err := Calculate(Input{Combo: ComboSLSQuasiPerm, PermanentKN: 100, Psi2: ptr(v)})
		require.Error(t, err, "psi2=%g", v)
		assert.True(t, merry.Is(err, ErrInvalidLoad))
	}
}

func TestCalculateUnknownComboIsULS(t *testing.T) {
	res, err := Calculate(Input{Combo: "X", PermanentKN: 100})
	require.NoError(t, err)
	assert.Equal(t, 1.35, res.GammaG)
}

func TestCalculateRejectsNegative(t *testing.T) {
	_, err := Calculate(Input{PermanentKN: -1})
	require.Error(t, err)
	assert.True(t, merry.Is(err, ErrInvalidLoad))
	assert.Equal(t, http.StatusBadRequest, merry.HTTPCode(err))
}

func TestHandlerAllCombos(t *testing.T) {
	h := &Handler{}
	body, _ := json.Marshal(Input{PermanentKN: 500, VariableKN: 200})
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var res []Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res, 3)
	assert.InDelta(t, 975.0, res[0].DesignAxialKN, 1e-9)
}

func TestHandlerAllCombosHonorsPsi2(t *testing.T) {
	h := &Handler{}
	rec := httptest.NewRecorder()
	body := `{"permanent_kn": 500, "variable_kn": 200, "psi2": 0}`
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(body))))
	require.Equal(t, http.StatusOK, rec.Code)

	var res []Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res, 3)
	assert.Equal(t, "SLS quasi-permanent", res[2].ComboName)
	assert.InDelta(t, 500.0, res[2].DesignAxialKN, 1e-9)

	all, err := All(500, 200, ptr(0.6))
	require.NoError(t, err)
	assert.InDelta(t, 620.0, all[2].DesignAxialKN, 1e-9)
}
