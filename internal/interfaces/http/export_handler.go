package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestoria-api/internal/application/usecase"
)

// ExportHandler volcado JSON de todos los datos (solo admin).
type ExportHandler struct {
	uc  *usecase.ExportUseCase
	now func() time.Time
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *usecase.ExportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc, now: time.Now}
}

// Export godoc
// @Summary      Exportar todos los datos
// @Description  Volcado JSON como adjunto gestoria-export-YYYY-MM-DD.json. Solo admin.
// @Tags         export
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ExportDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/export [get]
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	out, err := h.uc.Export(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+usecase.ExportFilename(h.now())+`"`)
	return c.JSON(out)
}
