package statement

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"statement_insight/pkg/api/common"
	"statement_insight/pkg/core/analysis"
	"statement_insight/pkg/core/calc"
	"statement_insight/pkg/core/ingest"
	"statement_insight/pkg/core/report"
	"statement_insight/pkg/core/session"
)

// Response is the analysis payload returned after an upload and on GET.
type Response struct {
	SessionID string `json:"session_id"`
	report.View
}

// Handler holds dependencies for statement endpoints
type Handler struct {
	store  *session.Store
	engine *analysis.AnalysisEngine
}

// NewHandler creates a new statement handler
func NewHandler(store *session.Store, engine *analysis.AnalysisEngine) *Handler {
	return &Handler{store: store, engine: engine}
}

// HandleUpload accepts a multipart upload in field "file".
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, ingest.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(ingest.MaxUploadBytes); err != nil {
		common.WriteError(w, http.StatusBadRequest, common.KindBadRequest, "invalid multipart upload: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, common.KindBadRequest, "missing form field \"file\"")
		return
	}
	defer file.Close()

	fmt.Printf("[STATEMENT] upload %s (%d bytes)\n", header.Filename, header.Size)
	rows, err := ingest.ReadStatement(file, header.Filename)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	h.analyzeAndStore(w, r, header.Filename, rows)
}

// HandleRows accepts the statement as a JSON array of rows.
func (h *Handler) HandleRows(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, ingest.MaxUploadBytes))
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, common.KindBadRequest, "cannot read body")
		return
	}
	rows, err := ingest.ParseRowsJSON(body)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	source := r.URL.Query().Get("name")
	if source == "" {
		source = "rows.json"
	}
	h.analyzeAndStore(w, r, source, rows)
}

// HandleGet returns the statement held by the caller's session.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, ok := common.LookupSession(r, h.store)
	if !ok {
		common.WriteError(w, http.StatusNotFound, common.KindNoStatement, session.ErrNoStatement.Error())
		return
	}
	a, err := s.Statement()
	if err != nil {
		common.WriteSessionError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, Response{SessionID: s.ID, View: report.BuildView(a)})
}

func (h *Handler) analyzeAndStore(w http.ResponseWriter, r *http.Request, source string, rows []calc.StatementRow) {
	a, err := h.engine.Analyze(source, rows)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	s := common.ResolveSession(w, r, h.store)
	if err := s.ReplaceStatement(a); err != nil {
		common.WriteSessionError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, Response{SessionID: s.ID, View: report.BuildView(a)})
}

// writeAnalysisError maps input errors to 422; nothing is stored for them.
func writeAnalysisError(w http.ResponseWriter, err error) {
	fmt.Printf("[STATEMENT] rejected: %v\n", err)
	switch {
	case errors.Is(err, ingest.ErrStructuralInput), errors.Is(err, analysis.ErrEmptyStatement):
		common.WriteError(w, http.StatusUnprocessableEntity, common.KindStructuralInput, err.Error())
	case errors.Is(err, calc.ErrMissingReferenceRow):
		common.WriteError(w, http.StatusUnprocessableEntity, common.KindMissingReferenceRow, err.Error())
	default:
		common.WriteError(w, http.StatusInternalServerError, common.KindInternal, err.Error())
	}
}
