// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"octa-bazi-api/internal/domain/entity"
	"octa-bazi-api/internal/domain/repository"
)

// ProfileRepository 八字档案仓储实现
type ProfileRepository struct {
	client *Client
}

// NewProfileRepository 创建档案仓储
func NewProfileRepository(client *Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

// Create 创建档案
func (r *ProfileRepository) Create(ctx context.Context, profile *entity.BaziProfile) error {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(profile).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取档案
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*entity.BaziProfile, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.GetByID")
	span.SetAttributes(attribute.String("profile.id", id))
	defer span.End()

	db := getDB(ctx, r.client.db)
	var profile entity.BaziProfile
	if err := db.First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// ListByUser 获取用户档案列表
func (r *ProfileRepository) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.BaziProfile], error) {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db).Model(&entity.BaziProfile{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}

	var profiles []*entity.BaziProfile
	if err := db.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&profiles).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return repository.NewPagedResult(profiles, total, pagination), nil
}

// Update 更新档案可修改字段
func (r *ProfileRepository) Update(ctx context.Context, profile *entity.BaziProfile) error {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Model(&entity.BaziProfile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]interface{}{
			"name":             profile.Name,
			"is_active":        profile.IsActive,
			"last_modified_at": profile.LastModifiedAt,
			"updated_at":       profile.UpdatedAt,
		})
	if result.Error != nil {
		span.RecordError(result.Error)
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update profile %s: %w", profile.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete 删除档案
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.BaziProfile{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// DeactivateAll 取消用户全部档案的激活状态
func (r *ProfileRepository) DeactivateAll(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.DeactivateAll")
	defer span.End()

	db := getDB(ctx, r.client.db)
	err := db.Model(&entity.BaziProfile{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to deactivate profiles: %w", err)
	}
	return nil
}
