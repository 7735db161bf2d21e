package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/couchcryptid/oxygen-conversion-service/internal/oxygen"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const maxBodyBytes = 1 << 20

// floats decodes either a JSON number or an array of numbers.
type floats []float64

func (f *floats) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var vs []float64
		if err := json.Unmarshal(data, &vs); err != nil {
			return err
		}
		*f = vs
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = floats{v}
	return nil
}

type convertRequest struct {
	Value       floats `json:"value"`
	From        string `json:"from"`
	To          string `json:"to"`
	Temperature floats `json:"temperature"`
	Salinity    floats `json:"salinity"`
	Pressure    floats `json:"pressure"`
	AirPressure floats `json:"air_pressure"`
	Density     floats `json:"density"`
}

type convertResponse struct {
	Values []float64 `json:"values"`
	Unit   string    `json:"unit"`
}

type solubilityResponse struct {
	Temperature float64 `json:"temperature"`
	Salinity    float64 `json:"salinity"`
	Solubility  float64 `json:"solubility"`
	Unit        string  `json:"unit"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if len(req.Value) == 0 || len(req.Temperature) == 0 || len(req.Salinity) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("value, temperature and salinity are required"))
		return
	}

	from, err := oxygen.ParseUnit(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	to, err := oxygen.ParseUnit(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cond := oxygen.VecConditions{
		Temperature: req.Temperature,
		Salinity:    req.Salinity,
		Pressure:    req.Pressure,
		AirPressure: req.AirPressure,
		Density:     req.Density,
	}
	if s.strict {
		if err := checkVec(req.Value, cond); err != nil {
			status := http.StatusUnprocessableEntity
			if errors.Is(err, oxygen.ErrShapeMismatch) {
				status = http.StatusBadRequest
			}
			writeError(w, status, err)
			return
		}
	}

	out, err := oxygen.ConvertVec(req.Value, from, to, cond)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("element %d: result is not finite", i))
			return
		}
	}

	s.logger.Debug("converted", "from", from, "to", to, "count", len(out))
	sharedobs.WriteJSON(w, http.StatusOK, convertResponse{Values: out, Unit: string(to)})
}

func (s *Server) handleSolubility(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	t, err := strconv.ParseFloat(q.Get("temperature"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("temperature must be a number"))
		return
	}
	sal, err := strconv.ParseFloat(q.Get("salinity"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("salinity must be a number"))
		return
	}

	unit := oxygen.UmolPerL
	if u := q.Get("unit"); u != "" {
		if unit, err = oxygen.ParseUnit(u); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	switch unit {
	case oxygen.UmolPerL, oxygen.MLPerL, oxygen.UmolPerKg:
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("solubility unit must be a concentration, got %s", unit))
		return
	}

	cond := oxygen.Conditions{Temperature: t, Salinity: sal}
	if s.strict {
		if err := oxygen.CheckConditions(cond); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
	}

	v, err := oxygen.Convert(oxygen.Solubility(t, sal), oxygen.UmolPerL, unit, cond)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		writeError(w, http.StatusUnprocessableEntity, errors.New("result is not finite"))
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, solubilityResponse{Temperature: t, Salinity: sal, Solubility: v, Unit: string(unit)})
}

// checkVec range-checks each broadcast element of a conversion request.
func checkVec(values []float64, c oxygen.VecConditions) error {
	args := [][]float64{values, c.Temperature, c.Salinity}
	for _, opt := range [][]float64{c.Pressure, c.AirPressure, c.Density} {
		if len(opt) > 0 {
			args = append(args, opt)
		}
	}
	n, err := oxygen.Broadcast(args...)
	if err != nil {
		return err
	}
	pick := func(a []float64, i int) float64 {
		switch len(a) {
		case 0:
			return 0
		case 1:
			return a[0]
		default:
			return a[i]
		}
	}
	for i := range n {
		cond := oxygen.Conditions{
			Temperature: pick(c.Temperature, i),
			Salinity:    pick(c.Salinity, i),
			Pressure:    pick(c.Pressure, i),
			AirPressure: pick(c.AirPressure, i),
			Density:     pick(c.Density, i),
		}
		if err := oxygen.CheckConditions(cond); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		if err := oxygen.CheckValue(pick(values, i)); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, errorResponse{Error: err.Error()})
}
