package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mzurek/drumtrack/internal/config"
	"github.com/mzurek/drumtrack/internal/queue"
	"github.com/mzurek/drumtrack/internal/repository"
	"github.com/mzurek/drumtrack/internal/service"
)

// ImportHandler exposes the CSV bulk-import entry point called by the
// external daily export. It authenticates with a shared key rather
// than a user session, since the caller is a cron job.
type ImportHandler struct {
	Cfg      config.Config
	Importer *service.ImportService
}

func NewImportHandler(cfg config.Config, imp *service.ImportService) *ImportHandler {
	return &ImportHandler{Cfg: cfg, Importer: imp}
}

// importTimeout bounds one full inventory replacement. The run
// deletes and re-inserts the whole table, so it gets far more room
// than an ordinary request.
const importTimeout = 2 * time.Minute

// Import handles POST /v1/import with a raw CSV body.
func (h *ImportHandler) Import(c echo.Context) error {
	requestID := uuid.NewString()

	if h.Cfg.ImportAPIKey == "" {
		// Operator-facing configuration error, not an end-user one.
		return importFailure(c, requestID, "import api key not configured")
	}
	if c.Request().Header.Get("X-Import-Key") != h.Cfg.ImportAPIKey {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid import key"})
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 64<<20))
	if err != nil {
		return importFailure(c, requestID, "read body: "+err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), importTimeout)
	defer cancel()

	res, err := h.Importer.Run(ctx, string(body))
	if errors.Is(err, repository.ErrImportBusy) {
		return c.JSON(http.StatusConflict, echo.Map{
			"success":   false,
			"error":     true,
			"message":   "another import is already running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"requestId": requestID,
		})
	}
	if err != nil {
		return importFailure(c, requestID, err.Error())
	}

	finished := time.Now().UTC()
	if pubErr := queue.PublishInventoryImported(ctx, queue.InventoryImportedEvent{
		RequestID:  requestID,
		Imported:   res.Imported,
		Skipped:    res.Skipped,
		FinishedAt: finished.Format(time.RFC3339),
	}); pubErr != nil {
		log.Printf("import %s: publish event failed: %v", requestID, pubErr)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   fmt.Sprintf("inventory replaced: %d imported, %d skipped", res.Imported, res.Skipped),
		"imported":  res.Imported,
		"skipped":   res.Skipped,
		"timestamp": finished.Format(time.RFC3339),
		"requestId": requestID,
	})
}

// importFailure reports a failed run in the shape the export cron
// expects, with the underlying message passed through verbatim.
func importFailure(c echo.Context, requestID, msg string) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"success":   false,
		"error":     true,
		"message":   msg,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"requestId": requestID,
	})
}
