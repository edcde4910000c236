// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"octa-bazi-api/internal/domain/entity"
)

// ProfileRepository 八字档案仓储接口
//
// 查询不到记录时返回 (nil, nil)，由调用方决定是否转换为 NotFound。
type ProfileRepository interface {
	// Create 创建档案
	Create(ctx context.Context, profile *entity.BaziProfile) error

	// GetByID 根据 ID 获取档案
	GetByID(ctx context.Context, id string) (*entity.BaziProfile, error)

	// ListByUser 获取用户档案列表，按创建时间倒序
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.BaziProfile], error)

	// Update 更新档案（名称、激活状态、修改时间）
	Update(ctx context.Context, profile *entity.BaziProfile) error

	// Delete 删除档案
	Delete(ctx context.Context, id string) error

	// DeactivateAll 取消用户全部档案的激活状态
	DeactivateAll(ctx context.Context, userID string) error
}
