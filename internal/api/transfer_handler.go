package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/recode/internal/api/shared"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/phrazzld/recode/internal/platform/spreadsheet"
	"github.com/phrazzld/recode/internal/service"
)

// TransferHandler exports and imports the authenticated user's records.
type TransferHandler struct {
	transfer service.TransferService
	logger   *slog.Logger
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transfer service.TransferService, logger *slog.Logger) *TransferHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransferHandler{
		transfer: transfer,
		logger:   logger.With(slog.String("component", "transfer_handler")),
	}
}

// Export handles GET /api/export.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	snap, err := h.transfer.Export(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export data")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="recode-export.json"`)
	shared.RespondWithJSON(w, r, http.StatusOK, snap)
}

// ExportSpreadsheet handles GET /api/export.xlsx.
func (h *TransferHandler) ExportSpreadsheet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	snap, err := h.transfer.Export(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export data")
		return
	}

	// Render fully before writing so a failure can still produce an error response.
	var buf bytes.Buffer
	if err := spreadsheet.WriteSnapshot(&buf, snap); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to render spreadsheet", err)
		return
	}

	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="recode-export.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to write spreadsheet",
			slog.String("error", err.Error()))
	}
}

// Import handles POST /api/import. The document replaces all of the user's
// decks and cards.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	shared.LimitBody(w, r)
	doc, err := domain.DecodeImportDocument(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "Import document too large", err)
			return
		}
		HandleAPIError(w, r, err, "Invalid import document")
		return
	}

	result, err := h.transfer.Import(r.Context(), userID, doc)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import data")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("import completed",
		slog.Int("decks", result.Decks),
		slog.Int("cards", result.Cards))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
