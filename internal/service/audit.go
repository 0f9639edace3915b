package service

import (
	"context"
	"encoding/json"

	"vespernexus/internal/entity"
	"vespernexus/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// appendAudit writes one immutable action record. Audit failures never fail
// the operation that triggered them; callers ignore the returned error unless
// they have a reason not to.
func appendAudit(
	ctx context.Context,
	audit repository.AuditLogRepository,
	actorID *uuid.UUID,
	action entity.AuditAction,
	target string,
	detail string,
	metadata map[string]any,
) error {
	if audit == nil {
		return nil
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}
	return audit.Append(ctx, &entity.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Target:   target,
		Detail:   detail,
		Metadata: payload,
	})
}
