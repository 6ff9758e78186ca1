// Package server runs the local classification backend: a small HTTP API that
// answers the same requests the remote classifier does, using a mock model.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/infrastructure/classifier"
	"github.com/juaai/jua/internal/infrastructure/metrics"
	"github.com/juaai/jua/internal/pkg/logger"
	"github.com/juaai/jua/internal/ports"
)

// multipart overhead allowed on top of the image itself
const formSlack = 1 << 20

var allowedExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// Server is the HTTP front of the mock model.
type Server struct {
	predictor *MockPredictor
	recorder  *metrics.Recorder
	gatherer  prometheus.Gatherer
	logger    ports.Logger
	clock     ports.Clock
	router    chi.Router
}

// Config wires a Server.
type Config struct {
	Predictor *MockPredictor
	Recorder  *metrics.Recorder
	Gatherer  prometheus.Gatherer
	Logger    ports.Logger
	Clock     ports.Clock
}

// New builds the router.
func New(cfg Config) *Server {
	s := &Server{
		predictor: cfg.Predictor,
		recorder:  cfg.Recorder,
		gatherer:  cfg.Gatherer,
		logger:    cfg.Logger,
		clock:     cfg.Clock,
	}
	if s.predictor == nil {
		s.predictor = NewMockPredictor(nil)
	}
	if s.clock == nil {
		s.clock = ports.SystemClock{}
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.NewRegistry()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(s.requestLogger)
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Endpoint not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/model-info", s.handleModelInfo)
		r.Post("/predict", s.handlePredict)
		r.Post("/analyze_leaf", s.handleAnalyzeLeaf)
	})
	router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	s.router = router
	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.ListenAndServe()
	}()
	s.logger.Info("classification backend listening", map[string]interface{}{"addr": addr})

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-serverErr
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "healthy",
		"model_loaded": true,
		"version":      ModelVersion,
	})
}

func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"model_loaded":     true,
		"input_shape":      []int{224, 224, 3},
		"class_names":      ClassNames,
		"metadata":         map[string]string{"type": ModelType, "version": ModelVersion},
		"simple_model":     false,
		"tensorflow_model": false,
	})
}

type predictResponse struct {
	Prediction  string                 `json:"prediction"`
	Confidence  float64                `json:"confidence"`
	Status      string                 `json:"status"`
	Suggestions classifier.Suggestions `json:"suggestions"`
	Timestamp   int64                  `json:"timestamp"`
	ModelInfo   modelInfo              `json:"model_info"`
	Note        string                 `json:"note,omitempty"`
}

type modelInfo struct {
	Type    string   `json:"type"`
	Version string   `json:"version"`
	Classes []string `json:"classes"`
	Status  string   `json:"status"`
}

// explanation sources reported by analyze_leaf
const (
	ExplanationSourceFallback = "fallback"
)

type analyzeLeafResponse struct {
	Diagnosis        predictResponse  `json:"diagnosis"`
	Explanation      string           `json:"gemini_ai_response"`
	EnhancedFeatures enhancedFeatures `json:"enhanced_features"`
}

type enhancedFeatures struct {
	AIAvailable       bool   `json:"gemini_ai_available"`
	ExplanationSource string `json:"explanation_source"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	data, ok := readUpload(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.diagnose(r, data))
}

// handleAnalyzeLeaf wraps the prediction with a plain-language explanation. No
// language model is attached, so the explanation is always the built-in one.
func (s *Server) handleAnalyzeLeaf(w http.ResponseWriter, r *http.Request) {
	data, ok := readUpload(w, r)
	if !ok {
		return
	}
	diagnosis := s.diagnose(r, data)
	respondJSON(w, http.StatusOK, analyzeLeafResponse{
		Diagnosis:   diagnosis,
		Explanation: classifier.ExplanationFor(diagnosis.Prediction, diagnosis.Confidence),
		EnhancedFeatures: enhancedFeatures{
			AIAvailable:       false,
			ExplanationSource: ExplanationSourceFallback,
		},
	})
}

// readUpload enforces the upload rules and writes the error response itself
// when they are not met.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxImageBytes+formSlack)
	if err := r.ParseMultipartForm(domain.MaxImageBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 16MB")
			return nil, false
		}
		respondError(w, http.StatusBadRequest, "No image file provided")
		return nil, false
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No image file provided")
		return nil, false
	}
	defer file.Close()
	if header.Filename == "" {
		respondError(w, http.StatusBadRequest, "No file selected")
		return nil, false
	}
	if header.Size > domain.MaxImageBytes {
		respondError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 16MB")
		return nil, false
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(header.Filename))] {
		respondError(w, http.StatusBadRequest, "Invalid file type. Please upload an image file")
		return nil, false
	}
	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid image file: "+err.Error())
		return nil, false
	}
	if sniffed := http.DetectContentType(data); !strings.HasPrefix(sniffed, "image/") {
		respondError(w, http.StatusBadRequest, "Invalid image file: content is "+sniffed)
		return nil, false
	}
	return data, true
}

func (s *Server) diagnose(r *http.Request, data []byte) predictResponse {
	pred := s.predictor.Predict(data)
	s.recorder.Prediction(pred.Class)
	s.logger.Info("prediction completed", map[string]interface{}{
		"path":       r.URL.Path,
		"prediction": pred.Class,
		"confidence": pred.Confidence,
		"request_id": middleware.GetReqID(r.Context()),
	})

	return predictResponse{
		Prediction:  pred.Class,
		Confidence:  pred.Confidence,
		Status:      "mock",
		Suggestions: classifier.SuggestionsFor(pred.Class),
		Timestamp:   s.clock.Now().UnixMilli(),
		ModelInfo: modelInfo{
			Type:    ModelType,
			Version: ModelVersion,
			Classes: ClassNames,
			Status:  "mock",
		},
		Note: MockNote,
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request served", map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		})
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message, "status": "error"})
}
