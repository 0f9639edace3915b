package dto

import (
	"time"

	"vespernexus/internal/entity"
)

type BindRequest struct {
	DeveloperCode string `json:"developerCode" validate:"required"`
}

type GenerateRequest struct {
	Level      string `json:"level" validate:"omitempty,oneof=developer admin root"`
	Quantity   int    `json:"quantity" validate:"omitempty,min=1,max=100"`
	Note       string `json:"note" validate:"omitempty,max=255"`
	CustomCode string `json:"customCode" validate:"omitempty,max=64"`
	Unlimited  bool   `json:"unlimited"`
}

type GenerateResponse struct {
	Codes []string `json:"codes"`
}

type RevokeRequest struct {
	Code string `json:"code" validate:"required"`
}

type DeveloperCodeResponse struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	Level       string     `json:"level"`
	GeneratedBy *string    `json:"generatedBy,omitempty"`
	BoundUserID *string    `json:"boundUserId,omitempty"`
	BoundAt     *time.Time `json:"boundAt,omitempty"`
	IsActive    bool       `json:"isActive"`
	Note        *string    `json:"note,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func DeveloperCodeResponseFromEntity(code *entity.DeveloperCode) DeveloperCodeResponse {
	response := DeveloperCodeResponse{
		ID:        code.ID.String(),
		Code:      code.Code,
		Level:     string(code.Level),
		BoundAt:   code.BoundAt,
		IsActive:  code.IsActive,
		Note:      code.Note,
		CreatedAt: code.CreatedAt,
	}
	if code.GeneratedBy != nil {
		value := code.GeneratedBy.String()
		response.GeneratedBy = &value
	}
	if code.BoundUserID != nil {
		value := code.BoundUserID.String()
		response.BoundUserID = &value
	}
	return response
}

func DeveloperCodeResponsesFromEntities(codes []entity.DeveloperCode) []DeveloperCodeResponse {
	responses := make([]DeveloperCodeResponse, 0, len(codes))
	for i := range codes {
		responses = append(responses, DeveloperCodeResponseFromEntity(&codes[i]))
	}
	return responses
}
