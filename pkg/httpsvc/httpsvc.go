// Copyright The NRI Plugins Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package httpsvc is the §6 HTTP/JSON service surface: an adapter over
// the kernel, built on the teacher's pkg/http.ServeMux, with Prometheus
// instrumentation and a health endpoint, exactly the collaborators
// spec.md §1 calls out as external to the core.
package httpsvc

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/containers/runnable-scheduler/pkg/graph"
	"github.com/containers/runnable-scheduler/pkg/healthz"
	xhttp "github.com/containers/runnable-scheduler/pkg/http"
	"github.com/containers/runnable-scheduler/pkg/kernel"
	logger "github.com/containers/runnable-scheduler/pkg/log"
	"github.com/containers/runnable-scheduler/pkg/metrics"
)

var log = logger.NewLogger("httpsvc")

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served, by path and status.",
	}, []string{"path", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scheduler",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by path.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path"})

	lastMakespan = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "scheduler",
		Name:      "last_run_makespan_ticks",
		Help:      "Makespan of the most recently completed run, in simulated ticks.",
	})

	lastTotalWait = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "scheduler",
		Name:      "last_run_total_wait_ticks",
		Help:      "Total accumulated wait of the most recently completed run, in simulated ticks.",
	})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, lastMakespan, lastTotalWait)
}

// Service wires the scheduling kernel behind an HTTP server.
type Service struct {
	server *xhttp.Server
}

// New creates a Service; call Start to begin serving.
func New() *Service {
	return &Service{server: xhttp.NewServer()}
}

// Start registers handlers and starts listening on addr.
func (s *Service) Start(addr string) error {
	mux := s.server.GetMux()
	healthz.Setup(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/v1/schedule", s.instrumented("/v1/schedule", handleLegacySchedule))
	mux.HandleFunc("/v1/graph", s.instrumented("/v1/graph", handleGraphSchedule))

	return s.server.Start(addr)
}

// Stop shuts the service down.
func (s *Service) Stop() { s.server.Stop() }

func (s *Service) instrumented(path string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: 200}
		fn(rec, r)
		requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
		requestsTotal.WithLabelValues(path, http.StatusText(rec.status)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// legacyRunnable is the §6 "Service surface" wire shape for one input
// node: { runnables: { name: {...} } }.
type legacyRunnable struct {
	Type          string   `json:"type"`
	ExecutionTime int      `json:"executionTime"`
	Period        int      `json:"period"`
	Priority      int      `json:"priority"`
	Deps          []string `json:"deps"`
}

type legacyRequest struct {
	Runnables      map[string]legacyRunnable `json:"runnables"`
	NumCores       int                       `json:"numCores"`
	SimulationTime int                       `json:"simulationTime"`
	Algorithm      string                    `json:"algorithm"`
}

type legacyLogEntry struct {
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Task     string `json:"task"`
	Instance int    `json:"instance"`
	Core     int    `json:"core"`
}

type legacyResponse struct {
	Success            bool             `json:"success"`
	ExecutionLog       []legacyLogEntry `json:"executionLog"`
	TotalExecutionTime int              `json:"totalExecutionTime"`
	Error              string           `json:"error,omitempty"`
}

// handleLegacySchedule implements the §6 "Service surface" contract:
// {runnables, numCores, simulationTime, algorithm} ->
// {success, executionLog, totalExecutionTime}.
func handleLegacySchedule(w http.ResponseWriter, req *http.Request) {
	var in legacyRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, legacyResponse{Success: false, Error: err.Error()})
		return
	}

	nodes := make([]graph.Node, 0, len(in.Runnables))
	for name, n := range in.Runnables {
		kind := graph.Event
		if n.Type == "periodic" {
			kind = graph.Periodic
		}
		nodes = append(nodes, graph.Node{
			Name:          name,
			Kind:          kind,
			ExecutionTime: n.ExecutionTime,
			Period:        n.Period,
			Priority:      n.Priority,
			Deps:          n.Deps,
		})
	}

	g, err := graph.New(nodes)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, legacyResponse{Success: false, Error: err.Error()})
		return
	}

	numCores := in.NumCores
	if numCores <= 0 {
		numCores = 1
	}

	algo := in.Algorithm
	allocPolicy := "dynamic"
	schedPolicy := algo
	if algo == "" {
		schedPolicy = "fcfs"
	}

	var iterations *int
	if in.SimulationTime > 0 {
		w := g.TotalWork()
		if w > 0 {
			it := (in.SimulationTime + w - 1) / w
			if it > 0 {
				iterations = &it
			}
		}
	}

	res, err := kernel.Run(kernel.Config{
		Graph:            g,
		NumCores:         numCores,
		SchedulingPolicy: schedPolicy,
		AllocationPolicy: allocPolicy,
		Iterations:       iterations,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, legacyResponse{Success: false, Error: err.Error()})
		return
	}

	lastMakespan.Set(float64(res.Makespan))
	lastTotalWait.Set(float64(res.TotalWait))

	instanceOf := map[string]int{}
	out := make([]legacyLogEntry, 0, len(res.Schedule))
	for _, e := range res.Schedule {
		idx := instanceOf[e.Name]
		instanceOf[e.Name] = idx + 1
		out = append(out, legacyLogEntry{Start: e.Start, End: e.Finish, Task: e.Name, Instance: idx, Core: e.Core})
	}

	writeJSON(w, http.StatusOK, legacyResponse{Success: true, ExecutionLog: out, TotalExecutionTime: res.Makespan})
}

// graphScheduleRequest is the richer, non-legacy contract: the §6 graph
// serialization format plus run parameters.
type graphScheduleRequest struct {
	Graph            json.RawMessage `json:"graph"`
	NumCores         int             `json:"numCores"`
	SchedulingPolicy string          `json:"schedulingPolicy"`
	AllocationPolicy string          `json:"allocationPolicy"`
	Iterations       *int            `json:"iterations"`
}

type graphScheduleResponse struct {
	Schedule  []kernel.Entry  `json:"schedule"`
	Makespan  int             `json:"makespan"`
	TotalWait int             `json:"totalWait"`
	Metrics   metrics.Metrics `json:"metrics"`
	Error     string          `json:"error,omitempty"`
}

func handleGraphSchedule(w http.ResponseWriter, req *http.Request) {
	var in graphScheduleRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, graphScheduleResponse{Error: err.Error()})
		return
	}

	g, err := graph.Unmarshal(in.Graph)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, graphScheduleResponse{Error: err.Error()})
		return
	}

	numCores := in.NumCores
	if numCores <= 0 {
		numCores = 1
	}

	res, err := kernel.Run(kernel.Config{
		Graph:            g,
		NumCores:         numCores,
		SchedulingPolicy: in.SchedulingPolicy,
		AllocationPolicy: in.AllocationPolicy,
		Iterations:       in.Iterations,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, graphScheduleResponse{Error: err.Error()})
		return
	}

	lastMakespan.Set(float64(res.Makespan))
	lastTotalWait.Set(float64(res.TotalWait))

	writeJSON(w, http.StatusOK, graphScheduleResponse{
		Schedule:  res.Schedule,
		Makespan:  res.Makespan,
		TotalWait: res.TotalWait,
		Metrics:   metrics.Compute(res, numCores),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}
