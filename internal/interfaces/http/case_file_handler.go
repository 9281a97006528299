package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestoria-api/internal/application/billing"
	"github.com/jhoicas/gestoria-api/internal/application/casefile"
	"github.com/jhoicas/gestoria-api/internal/application/dto"
)

// CaseFileHandler expedientes: alta, estado, checklist e historial.
type CaseFileHandler struct {
	uc       *casefile.UseCase
	payments *billing.PaymentUseCase
}

// NewCaseFileHandler construye el handler.
func NewCaseFileHandler(uc *casefile.UseCase, payments *billing.PaymentUseCase) *CaseFileHandler {
	return &CaseFileHandler{uc: uc, payments: payments}
}

// Create godoc
// @Summary      Abrir expediente
// @Description  Asigna número YY/NNN, copia el checklist del trámite y registra el estado inicial.
// @Tags         expedientes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCaseFileRequest  true  "datos"
// @Success      201  {object}  dto.CaseFileResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/expedientes [post]
func (h *CaseFileHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCaseFileRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar expedientes
// @Tags         expedientes
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "Filtrar por estado"
// @Param        cliente_id  query  string  false  "Filtrar por cliente (UUID)"
// @Param        q  query  string  false  "Busca en número y nombre del cliente"
// @Param        limit  query  integer  false  "Tamaño de página (1-100, por defecto 20)"
// @Param        offset  query  integer  false  "Desplazamiento"
// @Success      200  {object}  dto.CaseFileListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/expedientes [get]
func (h *CaseFileHandler) List(c *fiber.Ctx) error {
	var in dto.CaseFileFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Detail godoc
// @Summary      Ficha de expediente
// @Description  Expediente con checklist, historial, pagos y totales.
// @Tags         expedientes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Success      200  {object}  dto.CaseFileDetailResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expedientes/{id} [get]
func (h *CaseFileHandler) Detail(c *fiber.Ctx) error {
	out, err := h.uc.Detail(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar expediente
// @Description  Número y estado no se editan por aquí.
// @Tags         expedientes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Param        body  body  dto.UpdateCaseFileRequest  true  "datos"
// @Success      200  {object}  dto.CaseFileResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expedientes/{id} [put]
func (h *CaseFileHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCaseFileRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar expediente
// @Tags         expedientes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Success      204  "No Content"
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expedientes/{id} [delete]
func (h *CaseFileHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetStatus godoc
// @Summary      Cambiar estado
// @Tags         expedientes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Param        body  body  dto.SetStatusRequest  true  "datos"
// @Success      200  {object}  dto.CaseFileResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/expedientes/{id}/status [patch]
func (h *CaseFileHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.SetStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetStatus(c.UserContext(), ActorFrom(c), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Documents godoc
// @Summary      Checklist del expediente
// @Tags         expedientes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Success      200  {array}   dto.CaseDocumentResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expedientes/{id}/documents [get]
func (h *CaseFileHandler) Documents(c *fiber.Ctx) error {
	out, err := h.uc.Documents(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ToggleDocument godoc
// @Summary      Marcar documento recibido o pendiente
// @Description  Con todo el checklist recibido, un expediente en pendiente_documentos pasa a documentos_completos.
// @Tags         expedientes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Param        docId  path  string  true  "ID del documento del checklist (UUID)"
// @Param        body  body  dto.ToggleDocumentRequest  true  "datos"
// @Success      200  {object}  dto.ToggleDocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expedientes/{id}/documents/{docId} [patch]
func (h *CaseFileHandler) ToggleDocument(c *fiber.Ctx) error {
	var in dto.ToggleDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Received == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "datos inválidos",
			Fields: []dto.FieldError{{Field: "recibido", Message: "es obligatorio"}},
		})
	}
	out, err := h.uc.ToggleDocument(c.UserContext(), ActorFrom(c), c.Params("id"), c.Params("docId"), *in.Received)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de estados
// @Description  Más reciente primero.
// @Tags         expedientes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Success      200  {array}   dto.HistoryEntryResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expedientes/{id}/history [get]
func (h *CaseFileHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Rollup godoc
// @Summary      Totales del expediente
// @Tags         expedientes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Success      200  {object}  dto.RollupResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expedientes/{id}/rollup [get]
func (h *CaseFileHandler) Rollup(c *fiber.Ctx) error {
	out, err := h.payments.CaseFileRollup(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
