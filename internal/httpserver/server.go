package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	app "mcq-grader/internal/application"
	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/infrastructure/storage"
	"mcq-grader/internal/infrastructure/vision"
)

// Server HTTP API проверки бланков
type Server struct {
	grading   *app.GradingService
	maxUpload int64
	mux       *http.ServeMux
}

// New создаёт HTTP API поверх сервиса проверки
func New(grading *app.GradingService, maxUploadMB int) *Server {
	s := &Server{
		grading:   grading,
		maxUpload: int64(maxUploadMB) << 20,
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("POST /api/metadata", s.handleMetadata)
	s.mux.HandleFunc("POST /api/grade", s.handleGrade)
	s.mux.HandleFunc("GET /api/sessions/{id}", s.handleSession)

	return s
}

// Handler возвращает корневой обработчик
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe запускает сервер и останавливает его по отмене контекста
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("HTTP API listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"model_loaded": s.grading.Ready(r.Context()) == nil,
		"questions":    len(s.grading.Layout().Questions),
	})
}

// handleMetadata принимает эталонный бланк (поле model_answer) и возвращает ключ ответов.
func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile("model_answer")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file: model_answer")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	if !vision.IsImageName(header.Filename) {
		writeError(w, http.StatusBadRequest, "File must be PNG, JPG, BMP, TIFF or WebP")
		return
	}
	if err := s.grading.Ready(r.Context()); err != nil {
		log.Printf("Classifier is not ready: %v", err)
		writeError(w, http.StatusServiceUnavailable, "Server missing classifier model")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read upload: %v", err))
		return
	}

	meta, err := s.grading.ExtractMetadataBytes(r.Context(), header.Filename, data)
	if err != nil {
		log.Printf("Error extracting metadata from %s: %v", header.Filename, err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, meta)
}

// handleGrade проверяет бланки (поля sheets или sheets[]) по ключу из поля metadata.
// С ?format=csv возвращает ведомость файлом grades.csv.
func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	raw := r.FormValue("metadata")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "Missing form field: metadata (JSON string)")
		return
	}
	var meta entity.Metadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid metadata JSON: %v", err))
		return
	}
	if err := meta.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	headers := r.MultipartForm.File["sheets"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["sheets[]"]
	}
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "No sheet files uploaded (use key 'sheets')")
		return
	}
	if err := s.grading.Ready(r.Context()); err != nil {
		log.Printf("Classifier is not ready: %v", err)
		writeError(w, http.StatusServiceUnavailable, "Server missing classifier model")
		return
	}

	sheets, err := readSheets(headers)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(sheets) == 0 {
		writeError(w, http.StatusBadRequest, "No valid image files (PNG/JPG/BMP/TIFF/WebP)")
		return
	}

	session, err := s.grading.RunSession(r.Context(), sheets, &meta)
	if err != nil {
		log.Printf("Error grading batch: %v", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	log.Printf("Graded %d sheets in session %s", len(session.Results), session.ID)

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, session.Results)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	results, err := s.grading.Results(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, results)
		return
	}
	writeJSON(w, http.StatusOK, app.Session{ID: id, Results: results})
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		return fmt.Errorf("invalid multipart form: %w", err)
	}
	return nil
}

// readSheets читает загруженные бланки; файлы без имени и не-изображения пропускаются.
func readSheets(headers []*multipart.FileHeader) ([]entity.SheetSource, error) {
	sheets := make([]entity.SheetSource, 0, len(headers))
	for _, h := range headers {
		if h.Filename == "" || !vision.IsImageName(h.Filename) {
			continue
		}
		f, err := h.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", h.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", h.Filename, err)
		}
		sheets = append(sheets, entity.SheetSource{Name: h.Filename, Data: data})
	}
	return sheets, nil
}

func statusFor(err error) int {
	switch entity.CodeOf(err) {
	case entity.ErrorImageLoad, entity.ErrorInvalidImage, entity.ErrorInvalidRegion:
		return http.StatusUnprocessableEntity
	case entity.ErrorInvalidMetadata:
		return http.StatusBadRequest
	case entity.ErrorMissingResource:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeCSV(w http.ResponseWriter, results []entity.GradingResult) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="grades.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := app.WriteResultsCSV(w, results); err != nil {
		log.Printf("Error writing CSV: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
