package handler

import (
	"errors"
	"net/http"

	"vespernexus/api/middleware"
	"vespernexus/internal/dto"
	"vespernexus/internal/entity"
	"vespernexus/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type DeveloperHandler struct {
	Auth     *service.AuthService
	Codes    *service.DeveloperCodeService
	Validate *validator.Validate
}

func NewDeveloperHandler(auth *service.AuthService, codes *service.DeveloperCodeService, validate *validator.Validate) *DeveloperHandler {
	return &DeveloperHandler{Auth: auth, Codes: codes, Validate: validate}
}

// Bind redeems a developer code for the authenticated user and answers with
// a re-issued token carrying the upgraded role.
func (h *DeveloperHandler) Bind(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.BindRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Auth.BindCode(c.Request().Context(), userID, req.DeveloperCode)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.AuthResponseFromResult(result))
}

func (h *DeveloperHandler) Generate(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	role, ok := middleware.RoleFromContext(c)
	if !ok {
		return writeError(c, http.StatusForbidden, errors.New("forbidden"))
	}
	var req dto.GenerateRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.GenerateInput{
		Level:      entity.CodeLevel(req.Level),
		Quantity:   req.Quantity,
		CustomCode: req.CustomCode,
		Unlimited:  req.Unlimited,
		Note:       req.Note,
	}
	codes, err := h.Codes.Generate(c.Request().Context(), userID, role, input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.GenerateResponse{Codes: codes})
}

func (h *DeveloperHandler) ListCodes(c echo.Context) error {
	codes, err := h.Codes.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.DeveloperCodeResponsesFromEntities(codes))
}

func (h *DeveloperHandler) Revoke(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.RevokeRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Codes.Revoke(c.Request().Context(), userID, req.Code); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Revoked"})
}

func (h *DeveloperHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
