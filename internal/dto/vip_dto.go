package dto

import (
	"time"

	"vespernexus/internal/entity"
)

type CouponCreateRequest struct {
	Code         string `json:"code" validate:"omitempty,max=64"`
	Type         string `json:"type" validate:"required,oneof=discount free"`
	Value        int    `json:"value" validate:"omitempty,min=0,max=100"`
	DurationDays *int   `json:"durationDays" validate:"omitempty,min=1"`
	Uses         *int   `json:"uses" validate:"omitempty,min=1"`
	Unlimited    bool   `json:"unlimited"`
}

type CouponCreateResponse struct {
	ID string `json:"id"`
}

type PurchaseRequest struct {
	Plan    string `json:"plan" validate:"required"`
	Channel string `json:"channel" validate:"required,max=32"`
	Coupon  string `json:"coupon" validate:"omitempty,max=64"`
}

type PurchaseResponse struct {
	OrderID string `json:"orderId"`
	Payable int    `json:"payable"`
}

type ConfirmRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
	Success bool   `json:"success"`
}

type ConfirmResponse struct {
	Status string `json:"status"`
}

type UserResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Nickname  string     `json:"nickname"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	VipLevel  string     `json:"vipLevel"`
	VipExpiry *time.Time `json:"vipExpiry,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Nickname:  user.Nickname,
		Role:      string(entity.ResolveRole(user)),
		Status:    string(user.Status),
		VipLevel:  string(user.VipLevel),
		VipExpiry: user.VipExpiry,
		CreatedAt: user.CreatedAt,
	}
}

func UserResponsesFromEntities(users []entity.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, UserResponseFromEntity(&users[i]))
	}
	return responses
}

type StatusRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Status string `json:"status" validate:"required,oneof=active suspended"`
}

type AuditEntryResponse struct {
	ID        string    `json:"id"`
	ActorID   *string   `json:"actorId,omitempty"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"createdAt"`
}

func AuditEntryResponsesFromEntities(entries []entity.AuditLog) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response := AuditEntryResponse{
			ID:        entry.ID.String(),
			Action:    string(entry.Action),
			Target:    entry.Target,
			Detail:    entry.Detail,
			CreatedAt: entry.CreatedAt,
		}
		if entry.ActorID != nil {
			value := entry.ActorID.String()
			response.ActorID = &value
		}
		responses = append(responses, response)
	}
	return responses
}
