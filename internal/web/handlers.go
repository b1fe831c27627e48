package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasvieira/reembolso/internal/expense"
)

// maxUploadSize caps receipt uploads; high-resolution phone photos need room
const maxUploadSize = int64(50 << 20) // 50MB

// recordView is an ExpenseRecord without its image bytes, for API listings
type recordView struct {
	ID          string           `json:"id"`
	Category    expense.Category `json:"category"`
	Location    string           `json:"location"`
	Date        string           `json:"date"`
	Time        string           `json:"time"`
	AmountCents int              `json:"amount_cents"`
	CreatedAt   time.Time        `json:"created_at"`
}

func viewOf(r expense.ExpenseRecord) recordView {
	return recordView{
		ID:          r.ID,
		Category:    r.Category,
		Location:    r.Location,
		Date:        r.Date,
		Time:        r.Time,
		AmountCents: r.AmountCents,
		CreatedAt:   r.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// readUpload pulls the receipt file out of a multipart form, filling in the
// content type from the filename when the browser omits it
func readUpload(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "", fmt.Errorf("parsing form: %w", err)
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("no file provided: %w", err)
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		return nil, "", fmt.Errorf("file exceeds %dMB limit", maxUploadSize>>20)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("reading file: %w", err)
	}

	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if contentType == "" {
		switch strings.ToLower(filepath.Ext(header.Filename)) {
		case ".jpg", ".jpeg":
			contentType = "image/jpeg"
		case ".png":
			contentType = "image/png"
		case ".pdf":
			contentType = "application/pdf"
		case ".heic", ".heif":
			contentType = "image/heic"
		default:
			contentType = "application/octet-stream"
		}
	}

	return data, contentType, nil
}

// handleIndex serves the HTML interface for the active variant
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.variant == VariantSingle {
		w.Write(singleHTML)
		return
	}
	w.Write(indexHTML)
}

// handleSetProfile stores the payee profile for the session
func (s *Server) handleSetProfile(w http.ResponseWriter, r *http.Request) {
	var profile expense.PayeeProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := s.service.SetProfile(sessionID(r), profile)
	switch {
	case errors.Is(err, expense.ErrProfileLocked):
		writeError(w, http.StatusConflict, "O relatório já foi gerado; os dados do solicitante estão travados.")
	case errors.Is(err, expense.ErrInvalidProfile):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		slog.Error("Error setting profile", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleListExpenses returns the session ledger without image payloads
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.Expenses(sessionID(r))
	if err != nil {
		slog.Error("Error listing expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]recordView, 0, len(records))
	for _, rec := range records {
		views = append(views, viewOf(rec))
	}
	writeJSON(w, http.StatusOK, views)
}

// handleAddExpense extracts a receipt and appends it to the ledger
// (multi-receipt flow)
func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category := expense.Category(r.FormValue("category"))
	record, err := s.service.AddExpense(sessionID(r), category, data, contentType)
	if err != nil {
		extractionsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, expense.ErrInvalidCategory) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Extraction failures are recoverable: state is unchanged and the
		// user resubmits the photo
		writeError(w, http.StatusBadRequest,
			"Erro ao ler a nota. Verifique se a foto está legível e tente novamente.")
		return
	}

	extractionsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusCreated, viewOf(*record))
}

// handleAnalyze runs extraction with the key typed into the form and parks
// the result for confirmation (single-receipt flow)
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	apiKey := r.FormValue("api_key")
	if apiKey == "" {
		writeError(w, http.StatusBadRequest, "Informe sua API Key.")
		return
	}

	scanner, err := s.newScanner(apiKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Não foi possível usar essa API Key.")
		return
	}
	defer scanner.Close()

	result, err := s.service.Analyze(sessionID(r), scanner, data, contentType)
	if err != nil {
		extractionsTotal.WithLabelValues("failure").Inc()
		writeError(w, http.StatusBadRequest,
			"Erro ao ler a nota. Verifique se a foto está legível ou se sua API Key é válida.")
		return
	}

	extractionsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, result)
}

// handleConfirm turns the pending extraction into a confirmed record using
// the user-edited fields (single-receipt flow)
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category expense.Category `json:"category"`
		Location string           `json:"location"`
		Date     string           `json:"date"`
		Time     string           `json:"time"`
		Amount   float64          `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cents := int(math.Round(req.Amount * 100))
	record, err := s.service.Confirm(sessionID(r), req.Category, req.Location, req.Date, req.Time, cents)
	switch {
	case errors.Is(err, expense.ErrNothingPending):
		writeError(w, http.StatusConflict, "Analise uma nota antes de confirmar.")
	case errors.Is(err, expense.ErrInvalidCategory), errors.Is(err, expense.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		slog.Error("Error confirming expense", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusCreated, viewOf(*record))
	}
}

// handleGenerateReport renders the PDF and offers it as a download
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	consolidated := s.variant == VariantMulti
	pdfData, err := s.service.GenerateReport(sessionID(r), consolidated)
	switch {
	case errors.Is(err, expense.ErrNoProfile):
		reportsTotal.WithLabelValues("failure").Inc()
		writeError(w, http.StatusBadRequest, "Preencha os dados do solicitante antes de gerar o relatório.")
		return
	case errors.Is(err, expense.ErrNoExpenses):
		reportsTotal.WithLabelValues("failure").Inc()
		writeError(w, http.StatusBadRequest, "Adicione pelo menos uma despesa antes de gerar o relatório.")
		return
	case err != nil:
		// No partial file is ever returned on a render failure
		reportsTotal.WithLabelValues("failure").Inc()
		slog.Error("Error rendering report", "error", err)
		writeError(w, http.StatusInternalServerError, "Erro ao gerar o relatório. Nenhum arquivo foi produzido.")
		return
	}

	reportsTotal.WithLabelValues("success").Inc()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="reembolso.pdf"`)
	w.Write(pdfData)
}

// handleListArchivedReports lists the archived report names
func (s *Server) handleListArchivedReports(w http.ResponseWriter, r *http.Request) {
	names, err := s.service.ArchivedReports()
	if err != nil {
		slog.Error("Error listing archived reports", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// handleGetArchivedReport re-downloads an archived report
func (s *Server) handleGetArchivedReport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	data, err := s.service.ArchivedReport(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(name)))
	w.Write(data)
}

// handleEndSession destroys the session and expires the cookie
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.service.EndSession(sessionID(r)); err != nil {
		slog.Error("Error ending session", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

// handleStaticCSS serves the stylesheet
func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	w.Write(appCSS)
}

// handleStaticJS serves the script; it drives whichever form is on the page
func (s *Server) handleStaticJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(appJS)
}
