// Package dashboard serves a web UI over saved benchmark logs: a file
// dropdown plus per-iteration charts of inference time and CPU usage.
package dashboard

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/perflab-ai/modelbench/benchmark"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFS embed.FS

// Server holds the HTTP handler state. It is stateless per request: every
// selection re-reads the log file from disk, no caching.
type Server struct {
	logsDir string
	mux     *http.ServeMux
	logger  *zap.Logger
}

// NewServer creates a dashboard server reading logs from logsDir.
func NewServer(logsDir string, logger *zap.Logger) *Server {
	s := &Server{
		logsDir: logsDir,
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/api/logs", s.handleListLogs)
	s.mux.HandleFunc("/api/logs/", s.handleGetLog)
	s.mux.HandleFunc("/", s.handleStatic)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// LogListResponse is the payload of GET /api/logs.
type LogListResponse struct {
	Files []string `json:"files"`
	Total int      `json:"total"`
}

// ChartData is the payload of GET /api/logs/{file}: the series the charts
// plot, indexed by iteration. The slices are empty when the file is absent.
type ChartData struct {
	FileInfo       string    `json:"file_info"`
	Iterations     []int     `json:"iterations"`
	InferenceTimes []float64 `json:"inference_times"`
	CPUBefore      []float64 `json:"cpu_before"`
	CPUAfter       []float64 `json:"cpu_after"`
	MemoryBefore   []float64 `json:"memory_before"`
	MemoryAfter    []float64 `json:"memory_after"`
}

// ErrorResponse is the payload of a failed API request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	files, err := benchmark.ListLogs(s.logsDir)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to list logs: %v", err))
		return
	}

	s.writeJSON(w, http.StatusOK, LogListResponse{Files: files, Total: len(files)})
}

func (s *Server) handleGetLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/logs/")
	if !validLogName(name) {
		s.writeError(w, http.StatusBadRequest, "Invalid log file name")
		return
	}

	data := emptyChartData()
	path := filepath.Join(s.logsDir, name)

	log, err := benchmark.LoadLog(path)
	if err != nil {
		// Absent or corrupt file: placeholder message and empty charts,
		// not a failure.
		s.logger.Warn("log file not readable", zap.String("file", name), zap.Error(err))
		if errors.Is(err, fs.ErrNotExist) {
			data.FileInfo = fmt.Sprintf("File not found: %s", name)
		} else {
			data.FileInfo = fmt.Sprintf("Could not parse: %s", name)
		}
		s.writeJSON(w, http.StatusOK, data)
		return
	}

	data.FileInfo = fmt.Sprintf("Currently displaying: %s", name)
	for _, rec := range log {
		data.Iterations = append(data.Iterations, rec.Iteration)
		data.InferenceTimes = append(data.InferenceTimes, rec.InferenceTime)
		data.CPUBefore = append(data.CPUBefore, rec.Before.CPUPercent)
		data.CPUAfter = append(data.CPUAfter, rec.After.CPUPercent)
		data.MemoryBefore = append(data.MemoryBefore, rec.Before.MemoryPercent)
		data.MemoryAfter = append(data.MemoryAfter, rec.After.MemoryPercent)
	}

	s.writeJSON(w, http.StatusOK, data)
}

func emptyChartData() ChartData {
	return ChartData{
		Iterations:     []int{},
		InferenceTimes: []float64{},
		CPUBefore:      []float64{},
		CPUAfter:       []float64{},
		MemoryBefore:   []float64{},
		MemoryAfter:    []float64{},
	}
}

// validLogName accepts only bare file names matching the log convention,
// so requests cannot escape the logs directory.
func validLogName(name string) bool {
	if name == "" || name != filepath.Base(name) {
		return false
	}
	return strings.HasPrefix(name, "metrics_log_") && strings.HasSuffix(name, ".json")
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/" {
		path = "/index.html"
	}

	content, err := fs.ReadFile(staticFS, "static"+path)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "Page not found")
		return
	}

	contentType := "text/html; charset=utf-8"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css":
		contentType = "text/css; charset=utf-8"
	case ".js":
		contentType = "application/javascript; charset=utf-8"
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}
