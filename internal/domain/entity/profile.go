// Package entity 定义领域实体
package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ProfileIDPrefix 档案 ID 前缀
const ProfileIDPrefix = "bazi"

// Gender 性别
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender 解析性别，只接受 male/female/other
func ParseGender(s string) (Gender, bool) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale, GenderOther:
		return g, true
	}
	return "", false
}

// BaziProfile 八字档案实体
//
// 排盘结果在创建时计算并固化，之后只允许修改名称与激活状态。
type BaziProfile struct {
	ID            string    `json:"profile_id" gorm:"type:varchar(64);primaryKey"`
	UserID        string    `json:"user_id" gorm:"type:varchar(128);index;not null"`
	Name          string    `json:"name,omitempty" gorm:"type:varchar(100)"`
	BirthDate     time.Time `json:"birth_date" gorm:"type:date;not null"`
	BirthTime     string    `json:"birth_time,omitempty" gorm:"type:varchar(8)"`
	Timezone      string    `json:"timezone,omitempty" gorm:"type:varchar(64)"`
	BirthLocation string    `json:"birth_location" gorm:"type:varchar(200);not null"`
	Longitude     float64   `json:"longitude"`
	Gender        Gender    `json:"gender" gorm:"type:varchar(16);not null"`

	DayPillar     string  `json:"day_pillar" gorm:"type:varchar(8);index"`
	DayMaster     string  `json:"day_master" gorm:"type:varchar(4)"`
	StrengthLabel string  `json:"strength_label" gorm:"type:varchar(8)"`
	StrengthScore float64 `json:"strength_score"`

	LuckyElements   pq.StringArray `json:"lucky_elements" gorm:"type:text[]"`
	UnluckyElements pq.StringArray `json:"unlucky_elements" gorm:"type:text[]"`
	LuckyDirections pq.StringArray `json:"lucky_directions" gorm:"type:text[]"`
	LuckyColors     pq.StringArray `json:"lucky_colors" gorm:"type:text[]"`

	// Chart 命盘快照（JSON），Narrative 为四段叙述，可能为空
	Chart     datatypes.JSON `json:"chart" gorm:"type:jsonb"`
	Narrative datatypes.JSON `json:"narrative,omitempty" gorm:"type:jsonb"`

	IsActive       bool       `json:"is_active" gorm:"default:true;index"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	LastModifiedAt *time.Time `json:"last_modified_at,omitempty"`
}

// TableName 指定表名
func (BaziProfile) TableName() string {
	return "bazi_profiles"
}

// NewProfileID 生成档案 ID：bazi_<uuidv7>，按时间有序
func NewProfileID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate profile id: %w", err)
	}
	return ProfileIDPrefix + "_" + id.String(), nil
}

// NewBaziProfile 创建新档案
func NewBaziProfile(userID, name string, now time.Time) (*BaziProfile, error) {
	id, err := NewProfileID()
	if err != nil {
		return nil, err
	}
	return &BaziProfile{
		ID:        id,
		UserID:    userID,
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CooldownEndsAt 下次允许修改的时间；从未修改过时返回零值
func (p *BaziProfile) CooldownEndsAt(cooldown time.Duration) time.Time {
	if p.LastModifiedAt == nil {
		return time.Time{}
	}
	return p.LastModifiedAt.Add(cooldown)
}

// CanModify 检查冷却期是否已过
func (p *BaziProfile) CanModify(now time.Time, cooldown time.Duration) bool {
	if p.LastModifiedAt == nil {
		return true
	}
	return !now.Before(p.CooldownEndsAt(cooldown))
}

// MarkModified 记录一次修改
func (p *BaziProfile) MarkModified(now time.Time) {
	p.LastModifiedAt = &now
	p.UpdatedAt = now
}

// OwnedBy 是否属于该用户
func (p *BaziProfile) OwnedBy(userID string) bool {
	return p.UserID == userID
}
