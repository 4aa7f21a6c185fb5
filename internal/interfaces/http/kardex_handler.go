package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jdrueda/slotstock-api/internal/application/dto"
	"github.com/jdrueda/slotstock-api/internal/application/kardex"
	"github.com/jdrueda/slotstock-api/internal/domain"
)

// KardexHandler maneja las peticiones HTTP del kardex: movimientos manuales,
// consulta de balance e historial, y recálculo por replay (protegido).
type KardexHandler struct {
	uc *kardex.LedgerUseCase
}

// NewKardexHandler construye el handler.
func NewKardexHandler(uc *kardex.LedgerUseCase) *KardexHandler {
	return &KardexHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual del kardex
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "platform_id, type (IN/OUT/ADJUST), qty, unit_cost (IN), delta_total_cost (ADJUST)"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex/movements [post]
func (h *KardexHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.RegisterMovement(c.Context(), GetCompanyID(c), GetUserID(c), in); err != nil {
		return kardexError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "movimiento registrado"})
}

// GetBalance godoc
// @Summary      Balance vigente de una plataforma
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        platform_id  path  string  true  "ID de la plataforma"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/{platform_id}/balance [get]
func (h *KardexHandler) GetBalance(c *fiber.Ctx) error {
	out, err := h.uc.GetBalance(c.Context(), GetCompanyID(c), c.Params("platform_id"))
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de una plataforma
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        platform_id  path   string  true   "ID de la plataforma"
// @Param        from         query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        to           query  string  false  "Fecha final (YYYY-MM-DD)"
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/{platform_id}/movements [get]
func (h *KardexHandler) ListMovements(c *fiber.Ctx) error {
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (YYYY-MM-DD)"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (YYYY-MM-DD)"})
	}
	out, err := h.uc.ListMovements(c.Context(), GetCompanyID(c), c.Params("platform_id"),
		from, to, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(out)
}

// Recompute godoc
// @Summary      Recalcular balance por replay del historial
// @Description  Reconstruye cantidad y promedio desde el primer movimiento y
// @Description  los compara con el balance incremental. Con repair=true
// @Description  sobrescribe el balance con el resultado del replay.
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        platform_id  path   string  true   "ID de la plataforma"
// @Param        repair       query  bool    false  "Reparar el balance si hay deriva"
// @Success      200  {object}  dto.RecomputeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/{platform_id}/recompute [post]
func (h *KardexHandler) Recompute(c *fiber.Ctx) error {
	out, err := h.uc.Recompute(c.Context(), GetCompanyID(c), c.Params("platform_id"), c.QueryBool("repair", false))
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(out)
}

func kardexError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "plataforma no encontrada"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrNegativeInventory):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NEGATIVE_INVENTORY", Message: err.Error()})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENCY", Message: "conflicto de concurrencia, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
