package service

import (
	"context"
	"encoding/json"
	"fmt"

	"warehouse-backend/internal/model"
	"warehouse-backend/internal/repository"
)

func writeAuditEntry(ctx context.Context, repo repository.AuditRepository, actor Actor, action, entityID, entityName string, details map[string]interface{}) error {
	payload, _ := json.Marshal(details)
	uid := actor.ID
	entry := model.AuditLog{
		UserID:     &uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := repo.Log(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
