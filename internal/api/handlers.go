package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/blck04/irrigation-model/internal/chart"
	"github.com/blck04/irrigation-model/internal/metrics"
	"github.com/blck04/irrigation-model/internal/models"
	"github.com/blck04/irrigation-model/internal/sim"
	"github.com/blck04/irrigation-model/internal/store"
)

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}
	if len(req.Records) == 0 {
		http.Error(w, "no records supplied", http.StatusBadRequest)
		return
	}
	if req.Year == 0 {
		http.Error(w, "year is required", http.StatusBadRequest)
		return
	}

	records := make([]models.DailyRecord, 0, len(req.Records))
	for i, in := range req.Records {
		rec, err := in.toModel()
		if err != nil {
			http.Error(w, fmt.Sprintf("record %d: bad date %q", i, in.Date), http.StatusBadRequest)
			return
		}
		records = append(records, rec)
	}

	startMonth := time.Month(req.StartMonth)
	if req.StartMonth == 0 {
		startMonth = sim.DefaultStartMonth
	}
	endMonth := time.Month(req.EndMonth)
	if req.EndMonth == 0 {
		endMonth = sim.DefaultEndMonth
	}

	window := sim.NewSeasonWindow(req.Year, startMonth, endMonth)
	season, err := window.Filter(records)
	if err != nil {
		var emptyErr *sim.EmptySeasonError
		var missingErr *sim.MissingColumnError
		if errors.As(err, &emptyErr) || errors.As(err, &missingErr) {
			metrics.SimulationsTotal.WithLabelValues("rejected").Inc()
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	soil := req.Soil.toModel()
	curve := sim.DefaultKcCurve()
	if len(req.KcPoints) > 0 {
		points := make([]models.KcPoint, len(req.KcPoints))
		for i, p := range req.KcPoints {
			points[i] = models.KcPoint{Day: p.Day, Kc: p.Kc}
		}
		curve = sim.KcCurveFromSamples(points)
	}

	simulator := sim.NewSimulator(soil, curve)
	simulator.InitialMoisture = req.InitialMoisture

	started := time.Now()
	result := simulator.Run(season)
	metrics.SimulationDuration.Observe(time.Since(started).Seconds())
	metrics.SimulationsTotal.WithLabelValues("ok").Inc()

	summary := sim.Analyze(result, soil)

	resp := SimulateResponse{
		Summary:    summaryView(summary),
		Days:       dayViews(result.Days),
		Advisories: result.Advisories,
	}

	if req.Store && s.store != nil {
		run := models.SeasonRun{
			Year:       req.Year,
			StartMonth: int(startMonth),
			EndMonth:   int(endMonth),
			Soil:       soil,
			Summary:    summary,
			Advisories: store.JoinAdvisories(result.Advisories),
		}
		id, err := s.store.InsertRun(run, result.Days)
		if err != nil {
			log.Printf("api: store run: %v", err)
		} else {
			resp.RunID = id
		}
	}

	writeJSON(w, resp)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	runs, err := s.store.ListRuns(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	views := make([]RunView, len(runs))
	for i, run := range runs {
		views[i] = runView(run, nil)
	}
	writeJSON(w, views)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	run, days, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, runView(*run, days))
}

func (s *Server) handleRunChart(w http.ResponseWriter, r *http.Request) {
	run, days, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	data, err := chart.Render(models.SimulationResult{Days: days}, run.Soil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) (*models.SeasonRun, []models.SimulationDay, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "bad run id", http.StatusBadRequest)
		return nil, nil, false
	}

	run, err := s.store.GetRun(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, nil, false
	}
	if run == nil {
		http.Error(w, "run not found", http.StatusNotFound)
		return nil, nil, false
	}

	days, err := s.store.GetRunDays(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, nil, false
	}
	return run, days, true
}

func runView(run models.SeasonRun, days []models.SimulationDay) RunView {
	return RunView{
		ID:         run.ID,
		CreatedAt:  run.CreatedAt,
		Year:       run.Year,
		StartMonth: run.StartMonth,
		EndMonth:   run.EndMonth,
		Soil:       soilView(run.Soil),
		Summary:    summaryView(run.Summary),
		Advisories: run.Advisories,
		Days:       dayViews(days),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}
