package handler

import (
	"errors"
	"net/http"

	"vespernexus/api/middleware"
	"vespernexus/internal/dto"
	"vespernexus/internal/entity"
	"vespernexus/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type VipHandler struct {
	Service  *service.VipService
	Validate *validator.Validate
}

func NewVipHandler(svc *service.VipService, validate *validator.Validate) *VipHandler {
	return &VipHandler{Service: svc, Validate: validate}
}

func (h *VipHandler) CreateCoupon(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.CouponCreateRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.CouponInput{
		Code:         req.Code,
		Type:         entity.CouponType(req.Type),
		Value:        req.Value,
		DurationDays: req.DurationDays,
		Uses:         req.Uses,
		Unlimited:    req.Unlimited,
	}
	id, err := h.Service.CreateCoupon(c.Request().Context(), userID, input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CouponCreateResponse{ID: id.String()})
}

func (h *VipHandler) Purchase(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.PurchaseRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Service.Purchase(c.Request().Context(), userID, entity.VipLevel(req.Plan), req.Channel, req.Coupon)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.PurchaseResponse{OrderID: result.OrderID, Payable: result.Payable})
}

// Confirm is called by the payment channel, not by a user session.
func (h *VipHandler) Confirm(c echo.Context) error {
	var req dto.ConfirmRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid order id"))
	}
	status, err := h.Service.Confirm(c.Request().Context(), orderID, req.Success)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ConfirmResponse{Status: string(status)})
}

func (h *VipHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
