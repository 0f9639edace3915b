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

type AdminHandler struct {
	Auth     *service.AuthService
	Validate *validator.Validate
}

func NewAdminHandler(auth *service.AuthService, validate *validator.Validate) *AdminHandler {
	return &AdminHandler{Auth: auth, Validate: validate}
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	limit, offset := parseLimitOffset(c)
	users, err := h.Auth.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponsesFromEntities(users))
}

func (h *AdminHandler) SetStatus(c echo.Context) error {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.StatusRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid user id"))
	}
	if err := h.Auth.SetUserStatus(c.Request().Context(), actorID, userID, entity.UserStatus(req.Status)); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Status updated"})
}

func (h *AdminHandler) ListAudit(c echo.Context) error {
	limit, _ := parseLimitOffset(c)
	entries, err := h.Auth.ListAudit(c.Request().Context(), limit)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.AuditEntryResponsesFromEntities(entries))
}

func (h *AdminHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
