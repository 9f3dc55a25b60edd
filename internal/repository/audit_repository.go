package repository

import (
	"context"
	"fmt"

	"github.com/carevault/practice-server/internal/database"
	"github.com/carevault/practice-server/internal/models"
	"github.com/google/uuid"
)

// AuditRepository handles audit trail database operations
type AuditRepository struct{}

// NewAuditRepository creates a new audit repository
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Create creates a new audit entry
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	if err := database.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

// ListByEntity retrieves the audit trail for one entity, newest first
func (r *AuditRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	if err := database.DB.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// ListByActor retrieves audit entries written by one actor
func (r *AuditRepository) ListByActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	query := database.DB.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
