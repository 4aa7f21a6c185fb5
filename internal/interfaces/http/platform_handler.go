package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jdrueda/slotstock-api/internal/application/dto"
	"github.com/jdrueda/slotstock-api/internal/application/usecase"
	"github.com/jdrueda/slotstock-api/internal/domain"
)

// PlatformHandler maneja las peticiones HTTP del catálogo de plataformas (protegido).
type PlatformHandler struct {
	uc *usecase.PlatformUseCase
}

// NewPlatformHandler construye el handler.
func NewPlatformHandler(uc *usecase.PlatformUseCase) *PlatformHandler {
	return &PlatformHandler{uc: uc}
}

// Create godoc
// @Summary      Crear plataforma
// @Tags         platforms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePlatformRequest  true  "name, max_profiles (opcional)"
// @Success      201   {object}  dto.PlatformResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/platforms [post]
func (h *PlatformHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in dto.CreatePlatformRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(companyID, in)
	if err != nil {
		return platformError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener plataforma por ID
// @Tags         platforms
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la plataforma"
// @Success      200  {object}  dto.PlatformResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/platforms/{id} [get]
func (h *PlatformHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return platformError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar plataforma
// @Tags         platforms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la plataforma"
// @Param        body  body  dto.UpdatePlatformRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.PlatformResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/platforms/{id} [put]
func (h *PlatformHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePlatformRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return platformError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar plataformas
// @Tags         platforms
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.PlatformListResponse
// @Router       /api/platforms [get]
func (h *PlatformHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(GetCompanyID(c), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

func platformError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "plataforma con ese nombre ya existe"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "plataforma no encontrada"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
