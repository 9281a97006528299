package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestoria-api/internal/application/dto"
	"github.com/jhoicas/gestoria-api/internal/application/usecase"
)

// TramiteHandler catálogo de tipos de trámite y sus documentos requeridos.
type TramiteHandler struct {
	uc *usecase.TramiteUseCase
}

// NewTramiteHandler construye el handler.
func NewTramiteHandler(uc *usecase.TramiteUseCase) *TramiteHandler {
	return &TramiteHandler{uc: uc}
}

// ListTypes godoc
// @Summary      Listar tipos de trámite
// @Tags         tramites
// @Security     Bearer
// @Produce      json
// @Param        active  query  boolean  false  "Solo activos"
// @Success      200  {array}   dto.TramiteTypeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/tramites [get]
func (h *TramiteHandler) ListTypes(c *fiber.Ctx) error {
	out, err := h.uc.ListTypes(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateType godoc
// @Summary      Alta de tipo de trámite
// @Description  Solo admin.
// @Tags         tramites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TramiteTypeRequest  true  "datos"
// @Success      201  {object}  dto.TramiteTypeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/tramites [post]
func (h *TramiteHandler) CreateType(c *fiber.Ctx) error {
	var in dto.TramiteTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateType(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetType godoc
// @Summary      Obtener tipo de trámite
// @Tags         tramites
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Success      200  {object}  dto.TramiteTypeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tramites/{id} [get]
func (h *TramiteHandler) GetType(c *fiber.Ctx) error {
	out, err := h.uc.GetType(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateType godoc
// @Summary      Actualizar tipo de trámite
// @Description  Solo admin.
// @Tags         tramites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Param        body  body  dto.TramiteTypeRequest  true  "datos"
// @Success      200  {object}  dto.TramiteTypeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/tramites/{id} [put]
func (h *TramiteHandler) UpdateType(c *fiber.Ctx) error {
	var in dto.TramiteTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateType(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetTypeActive godoc
// @Summary      Activar o desactivar tipo de trámite
// @Description  Solo admin.
// @Tags         tramites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Param        body  body  dto.SetActiveRequest  true  "datos"
// @Success      200  {object}  dto.TramiteTypeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tramites/{id}/active [patch]
func (h *TramiteHandler) SetTypeActive(c *fiber.Ctx) error {
	var in dto.SetActiveRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetTypeActive(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteType godoc
// @Summary      Borrar tipo de trámite
// @Description  409 si hay expedientes que lo usan. Solo admin.
// @Tags         tramites
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Success      204  "No Content"
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/tramites/{id} [delete]
func (h *TramiteHandler) DeleteType(c *fiber.Ctx) error {
	if err := h.uc.DeleteType(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListDocuments godoc
// @Summary      Documentos requeridos del trámite
// @Tags         tramites
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Param        active  query  boolean  false  "Solo activos"
// @Success      200  {array}   dto.RequiredDocumentResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tramites/{id}/documents [get]
func (h *TramiteHandler) ListDocuments(c *fiber.Ctx) error {
	out, err := h.uc.ListDocuments(c.UserContext(), c.Params("id"), c.QueryBool("active", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateDocument godoc
// @Summary      Alta de documento requerido
// @Description  Solo admin.
// @Tags         tramites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Param        body  body  dto.RequiredDocumentRequest  true  "datos"
// @Success      201  {object}  dto.RequiredDocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tramites/{id}/documents [post]
func (h *TramiteHandler) CreateDocument(c *fiber.Ctx) error {
	var in dto.RequiredDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateDocument(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateDocument godoc
// @Summary      Actualizar documento requerido
// @Description  Solo admin.
// @Tags         tramites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Param        body  body  dto.RequiredDocumentRequest  true  "datos"
// @Success      200  {object}  dto.RequiredDocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/required-documents/{id} [put]
func (h *TramiteHandler) UpdateDocument(c *fiber.Ctx) error {
	var in dto.RequiredDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateDocument(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetDocumentActive godoc
// @Summary      Activar o desactivar documento requerido
// @Description  Solo admin.
// @Tags         tramites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Param        body  body  dto.SetActiveRequest  true  "datos"
// @Success      200  {object}  dto.RequiredDocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/required-documents/{id}/active [patch]
func (h *TramiteHandler) SetDocumentActive(c *fiber.Ctx) error {
	var in dto.SetActiveRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetDocumentActive(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteDocument godoc
// @Summary      Borrar documento requerido
// @Description  409 si algún expediente lo tiene en su checklist. Solo admin.
// @Tags         tramites
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID (UUID)"
// @Success      204  "No Content"
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/required-documents/{id} [delete]
func (h *TramiteHandler) DeleteDocument(c *fiber.Ctx) error {
	if err := h.uc.DeleteDocument(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
