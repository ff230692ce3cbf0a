package reports

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/feb027/melon-ai-sub001/internal/blob"
)

// Handlers handles HTTP requests for reports
type Handlers struct {
	service   *Service
	blobStore blob.Store
}

// NewHandlers creates new handlers. blobStore backs the local-mode
// file download route.
func NewHandlers(service *Service, blobStore blob.Store) *Handlers {
	return &Handlers{service: service, blobStore: blobStore}
}

// HandleGenerate handles POST /reports/analytics
func (h *Handlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, NewError(CodeInternalError, "Failed to generate report").WithDetails(err.Error()))
		return
	}

	result, err := h.service.Generate(r.Context(), req)
	if err != nil {
		writeError(w, AsError(err))
		return
	}

	writeSuccess(w, result)
}

// HandleDownload handles GET /reports/files/{name}. Used in local
// blob mode, where download links point back at this route instead of
// a presigned URL.
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	data, contentType, err := h.blobStore.GetObject(r.Context(), name)
	if err != nil {
		writeError(w, NewError(CodeNoData, "Report file not found").WithDetails(err.Error()))
		return
	}

	if contentType == "" {
		contentType = artifactContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// Helper functions

func writeSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, appErr *Error) {
	body := map[string]string{
		"code":    string(appErr.Code),
		"message": appErr.Message,
	}
	if appErr.Details != "" {
		body["details"] = appErr.Details
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus())
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   body,
	})
}
