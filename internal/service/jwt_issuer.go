package service

import (
	"time"

	"vespernexus/internal/entity"
	"vespernexus/internal/utils"

	"github.com/google/uuid"
)

type JWTSessionIssuer struct {
	Manager *utils.JWTManager
}

func (j JWTSessionIssuer) IssueSessionToken(userID uuid.UUID, email string, role entity.Role) (string, time.Duration, error) {
	if j.Manager == nil {
		return "", 0, ErrInvalidToken
	}
	return j.Manager.IssueSessionToken(userID.String(), email, string(role))
}
