package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jdrueda/slotstock-api/internal/application/accounts"
	"github.com/jdrueda/slotstock-api/internal/application/dto"
	"github.com/jdrueda/slotstock-api/internal/domain"
)

// AccountHandler maneja las peticiones HTTP de cuentas y perfiles (protegido).
type AccountHandler struct {
	uc *accounts.AccountUseCase
}

// NewAccountHandler construye el handler.
func NewAccountHandler(uc *accounts.AccountUseCase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

// Create godoc
// @Summary      Comprar cuenta (crea perfiles y registra la entrada al kardex)
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAccountRequest  true  "platform_id, email_login, profiles_total, total_cost, fechas; supplier_id o supplier inline"
// @Success      201   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/accounts [post]
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return accountError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener cuenta con sus perfiles
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.AccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounts/{id} [get]
func (h *AccountHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return accountError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cuenta
// @Description  Campos simples se actualizan directo. total_cost dispara una
// @Description  corrección de costo en el kardex; profiles_total un
// @Description  redimensionamiento de capacidad. Todo en una transacción.
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cuenta"
// @Param        body  body  dto.UpdateAccountRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/accounts/{id} [put]
func (h *AccountHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return accountError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Inactivar cuenta (bloquea perfiles disponibles y ajusta el kardex)
// @Description  Idempotente: inactivar una cuenta ya inactiva responde 204.
// @Tags         accounts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounts/{id} [delete]
func (h *AccountHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id")); err != nil {
		return accountError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Listar cuentas
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        platform_id       query  string  false  "Filtrar por plataforma"
// @Param        include_inactive  query  bool    false  "Incluir cuentas INACTIVE"
// @Param        limit             query  int     false  "Límite"   default(20)
// @Param        offset            query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.AccountListResponse
// @Router       /api/accounts [get]
func (h *AccountHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetCompanyID(c),
		c.Query("platform_id"), c.QueryBool("include_inactive", false),
		c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return accountError(c, err)
	}
	return c.JSON(out)
}

func accountError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidPurchase), errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrCapacityBelowSold):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CAPACITY_BELOW_SOLD", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientAvailable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_AVAILABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrNegativeInventory):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NEGATIVE_INVENTORY", Message: err.Error()})
	case errors.Is(err, domain.ErrAccountInactive):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ACCOUNT_INACTIVE", Message: err.Error()})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENCY", Message: "conflicto de concurrencia, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
