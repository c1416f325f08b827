package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IrinaBBB/TaskBoard/internal/export"
	"github.com/IrinaBBB/TaskBoard/internal/http/dto"
)

type TaskExporter interface {
	Export(format string) ([]byte, string, error)
}

type ExportHandler struct {
	exporter TaskExporter
}

func NewExport(exporter TaskExporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// GET /exports/tasks?format=json|csv|pdf
func (h *ExportHandler) Tasks(c *gin.Context) {
	format := c.DefaultQuery("format", export.FormatJSON)

	body, contentType, err := h.exporter.Export(format)
	if err != nil {
		switch {
		case errors.Is(err, export.ErrUnknownFormat):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: export.ErrUnknownFormat.Error()})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternal})
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="tasks.%s"`, export.Extension(format)))
	c.Data(http.StatusOK, contentType, body)
}
