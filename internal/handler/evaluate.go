package handler

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/pwcheck/pwcheck-go/internal/model"
	"github.com/pwcheck/pwcheck-go/internal/service"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// indexPage is the view model rendered by templates/index.html.
type indexPage struct {
	Results []model.EvaluationResult
	Error   string
}

// EvaluateHandler handles HTTP requests for password evaluation.
type EvaluateHandler struct {
	service        *service.EvaluatorService
	maxUploadBytes int64
}

// NewEvaluateHandler creates a new EvaluateHandler. maxUploadBytes bounds
// request bodies, including uploaded password lists.
func NewEvaluateHandler(svc *service.EvaluatorService, maxUploadBytes int64) *EvaluateHandler {
	return &EvaluateHandler{service: svc, maxUploadBytes: maxUploadBytes}
}

// HandleForm handles GET / requests.
func (h *EvaluateHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	renderIndex(w, http.StatusOK, indexPage{})
}

// HandleSubmit handles POST / requests. Passwords from the uploaded file are
// evaluated first, followed by the single password field when non-empty.
// Both count toward MaxBatchPasswords.
func (h *EvaluateHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			renderIndex(w, http.StatusRequestEntityTooLarge, indexPage{Error: "upload too large"})
			return
		}
		renderIndex(w, http.StatusBadRequest, indexPage{Error: "invalid form submission"})
		return
	}

	var candidates []service.Candidate

	file, header, err := r.FormFile("password_file")
	switch {
	case err == nil:
		defer file.Close()
		if header.Filename != "" {
			candidates, err = readPasswordLines(file, h.maxUploadBytes)
			if err != nil {
				slog.Warn("rejecting uploaded password list", "file", header.Filename, "error", err)
				renderIndex(w, http.StatusBadRequest, indexPage{Error: err.Error()})
				return
			}
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		renderIndex(w, http.StatusBadRequest, indexPage{Error: "invalid file upload"})
		return
	}

	if single := r.FormValue("password"); single != "" {
		if len(candidates) >= MaxBatchPasswords {
			renderIndex(w, http.StatusBadRequest, indexPage{Error: ErrTooManyPasswords.Error()})
			return
		}
		candidates = append(candidates, service.Candidate{Password: single})
	}

	results := h.service.EvaluateCandidates(r.Context(), candidates)
	renderIndex(w, http.StatusOK, indexPage{Results: results})
}

// HandleEvaluate handles POST /api/v1/evaluate requests.
func (h *EvaluateHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req model.EvaluateRequest
	if err := decodeJSON(w, r, h.maxUploadBytes, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(ErrTooManyPasswords.Error()))
		return
	}

	passwords := req.Passwords
	if req.Password != nil {
		passwords = append(passwords, *req.Password)
	}
	if len(passwords) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("password or passwords is required"))
		return
	}
	if len(passwords) > MaxBatchPasswords {
		writeJSON(w, http.StatusBadRequest, errorResponse(ErrTooManyPasswords.Error()))
		return
	}

	results := h.service.EvaluateBatch(r.Context(), passwords)
	writeJSON(w, http.StatusOK, model.EvaluateResponse{Results: results})
}

func renderIndex(w http.ResponseWriter, status int, page indexPage) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		slog.Error("rendering index page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
