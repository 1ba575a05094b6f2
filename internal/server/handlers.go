package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kingrea/diskseek/internal/engine"
	"github.com/kingrea/diskseek/internal/report"
)

type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type policyInfo struct {
	Name        engine.Policy `json:"name"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
	Directional bool          `json:"directional"`
}

type policiesResponse struct {
	Policies []policyInfo `json:"policies"`
}

// scheduleRequest is the body of /schedule and /compare. Policy is ignored
// by /compare.
type scheduleRequest struct {
	Policy    string `json:"policy"`
	Requests  []int  `json:"requests"`
	Head      int    `json:"head"`
	Previous  int    `json:"previous"`
	Direction string `json:"direction"`
	NumTracks int    `json:"num_tracks"`
}

type compareRow struct {
	Policy        engine.Policy `json:"policy"`
	Label         string        `json:"label"`
	Sequence      []int         `json:"sequence"`
	TotalMovement int           `json:"total_movement"`
	Steps         int           `json:"steps"`
}

type compareResponse struct {
	ID      string       `json:"id"`
	Results []compareRow `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := s.snapshot()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        string(state.status),
		Version:       APIVersion,
		UptimeSeconds: state.uptime(s.clock()),
	})
}

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	resp := policiesResponse{}
	for _, p := range engine.Policies() {
		resp.Policies = append(resp.Policies, policyInfo{
			Name:        p,
			Label:       p.Label(),
			Description: p.Description(),
			Directional: p.Directional(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decode(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(body.Policy) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "policy is required"})
		return
	}
	req, err := s.toEngine(body, body.Policy)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	res, err := engine.Compute(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	id := RequestIDFromContext(r.Context())
	s.logger.Debug("schedule computed", "request_id", id, "policy", res.Policy, "movement", res.TotalMovement)
	writeJSON(w, http.StatusOK, report.NewDocument(id, req, res, nil))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decode(w, r)
	if !ok {
		return
	}
	req, err := s.toEngine(body, string(engine.FCFS))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	results, err := engine.Compare(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	resp := compareResponse{ID: RequestIDFromContext(r.Context())}
	for _, res := range results {
		resp.Results = append(resp.Results, compareRow{
			Policy:        res.Policy,
			Label:         res.Policy.Label(),
			Sequence:      res.Sequence,
			TotalMovement: res.TotalMovement,
			Steps:         res.Steps(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (scheduleRequest, bool) {
	var body scheduleRequest
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "payload exceeds limit"})
			return body, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return body, false
	}
	return body, true
}

func (s *Server) toEngine(body scheduleRequest, policyName string) (engine.Request, error) {
	policy, err := engine.ParsePolicy(policyName)
	if err != nil {
		return engine.Request{}, err
	}
	req := engine.Request{
		Policy:    policy,
		Requests:  body.Requests,
		Head:      body.Head,
		Previous:  body.Previous,
		NumTracks: body.NumTracks,
	}
	if req.NumTracks == 0 {
		req.NumTracks = s.settings.NumTracks
	}
	if strings.TrimSpace(body.Direction) != "" {
		dir, err := engine.ParseDirection(body.Direction)
		if err != nil {
			return engine.Request{}, err
		}
		req.Direction = dir
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
