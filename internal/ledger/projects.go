package ledger

import (
	"context"
	"fmt"

	"builders-bot/internal/models"
)

// SaveProject stores an opaque project payload. The payload shape is not
// validated; it belongs to whoever submitted it.
func (s *Store) SaveProject(ctx context.Context, payload map[string]interface{}) error {
	project := models.Project{Data: models.JSONMap(payload)}
	if err := s.DB.WithContext(ctx).Create(&project).Error; err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// GetProjects returns up to limit project payloads, most recent first.
func (s *Store) GetProjects(ctx context.Context, limit int) ([]map[string]interface{}, error) {
	var rows []models.Project
	err := s.DB.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	payloads := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		payloads[i] = map[string]interface{}(row.Data)
	}
	return payloads, nil
}
