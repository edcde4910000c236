// Package profile 提供八字档案的创建、查询、修改与切换
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	appbazi "octa-bazi-api/internal/application/bazi"
	domainbazi "octa-bazi-api/internal/domain/bazi"
	"octa-bazi-api/internal/domain/entity"
	"octa-bazi-api/internal/domain/repository"
	"octa-bazi-api/internal/infrastructure/messaging"
	apperrors "octa-bazi-api/pkg/errors"
	"octa-bazi-api/pkg/logger"
	"octa-bazi-api/pkg/metrics"
	"octa-bazi-api/pkg/tracer"
)

const (
	maxNameLength     = 100
	maxLocationLength = 200
)

// Analyzer 排盘分析端口
type Analyzer interface {
	Analyze(ctx context.Context, in domainbazi.BirthInput) (*appbazi.Analysis, error)
}

// EventPublisher 档案事件发布端口
type EventPublisher interface {
	PublishProfileEvent(ctx context.Context, evt *messaging.ProfileEventMessage) (string, error)
}

// Config 档案服务配置
type Config struct {
	// Cooldown 两次修改之间的最短间隔
	Cooldown time.Duration
	// DefaultLongitude 出生地无法识别时的经度
	DefaultLongitude float64
}

// CreateInput 创建档案输入
type CreateInput struct {
	Name          string
	BirthDate     domainbazi.Date
	BirthTime     *domainbazi.TimeOfDay
	Timezone      string
	BirthLocation string
	Gender        string
}

// UpdateInput 修改档案输入，只允许修改名称与激活状态
type UpdateInput struct {
	Name     *string
	IsActive *bool
}

// Service 档案服务
type Service struct {
	repo      repository.ProfileRepository
	tx        repository.Transactor
	analyzer  Analyzer
	publisher EventPublisher
	cfg       Config
	now       func() time.Time
}

// Option 档案服务选项
type Option func(*Service)

// WithClock 注入时钟
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService 创建档案服务，publisher 为 nil 时不发布事件
func NewService(repo repository.ProfileRepository, tx repository.Transactor, analyzer Analyzer, publisher EventPublisher, cfg Config, opts ...Option) *Service {
	if cfg.Cooldown < 0 {
		cfg.Cooldown = 0
	}
	s := &Service{
		repo:      repo,
		tx:        tx,
		analyzer:  analyzer,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cooldown 档案修改冷却期
func (s *Service) Cooldown() time.Duration { return s.cfg.Cooldown }

// DefaultLongitude 出生地无法识别时使用的经度
func (s *Service) DefaultLongitude() float64 { return s.cfg.DefaultLongitude }

// Create 校验输入、排盘并保存新档案
//
// 新档案处于激活状态，同一用户的其他档案在同一事务中被取消激活。
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*entity.BaziProfile, error) {
	ctx, span := tracer.Start(ctx, "profile.Create")
	defer span.End()

	p, err := s.create(ctx, userID, in)
	s.observe("create", err)
	tracer.RecordError(span, err)
	return p, err
}

func (s *Service) create(ctx context.Context, userID string, in CreateInput) (*entity.BaziProfile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
	location := strings.TrimSpace(in.BirthLocation)
	if n := utf8.RuneCountInString(location); n < 1 || n > maxLocationLength {
		return nil, apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("birth_location must be 1 to %d characters", maxLocationLength))
	}
	gender, ok := entity.ParseGender(in.Gender)
	if !ok {
		return nil, apperrors.ErrInvalidParam.WithDetail("gender must be one of male, female, other")
	}

	birth := domainbazi.BirthInput{Date: in.BirthDate, Time: in.BirthTime}
	if tz := strings.TrimSpace(in.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, apperrors.ErrInvalidParam.WithDetail("unknown timezone: " + tz)
		}
		birth.Zone = loc
	}
	lon, matched := ResolveLongitude(location, s.cfg.DefaultLongitude)
	birth.Longitude = &lon
	if !matched {
		logger.Debug(ctx, "birth location not recognised, using default longitude", "location", location, "longitude", lon)
	}

	analysis, err := s.analyzer.Analyze(ctx, birth)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, apperrors.CodeCalculationFailed, "failed to calculate bazi")
	}

	p, err := entity.NewBaziProfile(userID, name, s.now().UTC())
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to create profile")
	}
	if err := fillProfile(p, in, birth, location, gender, analysis); err != nil {
		return nil, err
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.DeactivateAll(txCtx, userID); err != nil {
			return err
		}
		return s.repo.Create(txCtx, p)
	})
	if err != nil {
		logger.Error(ctx, "failed to save bazi profile", err, "user_id", userID)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to save profile")
	}

	logger.Info(ctx, "bazi profile created", "profile_id", p.ID, "user_id", userID, "day_pillar", p.DayPillar)
	s.publish(ctx, messaging.EventProfileCreated, p)
	return p, nil
}

// fillProfile 把输入与分析结果写入实体
func fillProfile(p *entity.BaziProfile, in CreateInput, birth domainbazi.BirthInput, location string, gender entity.Gender, a *appbazi.Analysis) error {
	p.BirthDate = in.BirthDate.Time(time.UTC)
	if in.BirthTime != nil {
		p.BirthTime = in.BirthTime.String()
	}
	if birth.Zone != nil {
		p.Timezone = birth.Zone.String()
	}
	p.BirthLocation = location
	p.Longitude = *birth.Longitude
	p.Gender = gender

	p.DayPillar = a.Chart.DayPillarText()
	p.DayMaster = a.Chart.DayMaster.String()
	p.StrengthLabel = string(a.Strength.Label)
	p.StrengthScore = a.Strength.Score
	p.LuckyElements = elementStrings(a.Luck.Lucky)
	p.UnluckyElements = elementStrings(a.Luck.Unlucky)
	p.LuckyDirections = append([]string(nil), a.Luck.Directions...)
	p.LuckyColors = append([]string(nil), a.Luck.Colors...)

	chart, err := json.Marshal(a.Chart)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalError, "failed to encode chart")
	}
	p.Chart = datatypes.JSON(chart)
	if a.Narrative != nil {
		n, err := json.Marshal(a.Narrative)
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeInternalError, "failed to encode narrative")
		}
		p.Narrative = datatypes.JSON(n)
	}
	return nil
}

// List 列出用户的档案
func (s *Service) List(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.BaziProfile], error) {
	ctx, span := tracer.Start(ctx, "profile.List")
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	result, err := s.repo.ListByUser(ctx, userID, pagination)
	if err != nil {
		tracer.RecordError(span, err)
		logger.Error(ctx, "failed to list bazi profiles", err, "user_id", userID)
		s.observe("list", err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list profiles")
	}
	s.observe("list", nil)
	return result, nil
}

// Get 获取档案，不属于该用户的档案视为不存在
func (s *Service) Get(ctx context.Context, userID, id string) (*entity.BaziProfile, error) {
	ctx, span := tracer.Start(ctx, "profile.Get")
	defer span.End()

	p, err := s.load(ctx, userID, id)
	tracer.RecordError(span, err)
	return p, err
}

// Update 修改名称或激活状态，受修改冷却期限制
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (*entity.BaziProfile, error) {
	ctx, span := tracer.Start(ctx, "profile.Update")
	defer span.End()

	p, err := s.update(ctx, userID, id, in)
	s.observe("update", err)
	tracer.RecordError(span, err)
	return p, err
}

func (s *Service) update(ctx context.Context, userID, id string, in UpdateInput) (*entity.BaziProfile, error) {
	var name string
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if utf8.RuneCountInString(name) > maxNameLength {
			return nil, apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("name must be at most %d characters", maxNameLength))
		}
	}

	p, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if !p.CanModify(now, s.cfg.Cooldown) {
		ends := p.CooldownEndsAt(s.cfg.Cooldown)
		return nil, apperrors.ErrProfileCooldown.WithDetail("cooldown_ends_at=" + ends.Format(time.RFC3339))
	}
	if in.Name == nil && in.IsActive == nil {
		return p, nil
	}

	if in.Name != nil {
		p.Name = name
	}
	activate := in.IsActive != nil && *in.IsActive && !p.IsActive
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.MarkModified(now)

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if activate {
			if err := s.repo.DeactivateAll(txCtx, userID); err != nil {
				return err
			}
		}
		return s.repo.Update(txCtx, p)
	})
	if err != nil {
		logger.Error(ctx, "failed to update bazi profile", err, "profile_id", id)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to update profile")
	}
	logger.Info(ctx, "bazi profile updated", "profile_id", id, "user_id", userID)
	return p, nil
}

// Delete 删除档案
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	ctx, span := tracer.Start(ctx, "profile.Delete")
	defer span.End()

	p, err := s.load(ctx, userID, id)
	if err == nil {
		if err = s.repo.Delete(ctx, id); err != nil {
			logger.Error(ctx, "failed to delete bazi profile", err, "profile_id", id)
			err = apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to delete profile")
		}
	}
	s.observe("delete", err)
	if err != nil {
		tracer.RecordError(span, err)
		return err
	}

	logger.Info(ctx, "bazi profile deleted", "profile_id", id, "user_id", userID)
	s.publish(ctx, messaging.EventProfileDeleted, p)
	return nil
}

// Activate 激活指定档案并取消该用户其他档案的激活状态
//
// 切换档案不计入修改冷却。
func (s *Service) Activate(ctx context.Context, userID, id string) (*entity.BaziProfile, error) {
	ctx, span := tracer.Start(ctx, "profile.Activate")
	defer span.End()

	p, err := s.load(ctx, userID, id)
	if err == nil {
		p.IsActive = true
		p.UpdatedAt = s.now().UTC()
		err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := s.repo.DeactivateAll(txCtx, userID); err != nil {
				return err
			}
			return s.repo.Update(txCtx, p)
		})
		if err != nil {
			logger.Error(ctx, "failed to activate bazi profile", err, "profile_id", id)
			err = apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to activate profile")
		}
	}
	s.observe("activate", err)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}
	return p, nil
}

// load 读取档案并校验归属
func (s *Service) load(ctx context.Context, userID, id string) (*entity.BaziProfile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("profile id is required")
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.Error(ctx, "failed to load bazi profile", err, "profile_id", id)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load profile")
	}
	if p == nil || !p.OwnedBy(userID) {
		return nil, apperrors.ErrProfileNotFound.WithDetail(id)
	}
	return p, nil
}

// publish 发布档案事件，失败只记录日志
func (s *Service) publish(ctx context.Context, eventType string, p *entity.BaziProfile) {
	if s.publisher == nil {
		return
	}
	requestID, _ := ctx.Value(logger.RequestIDKey).(string)
	evt := &messaging.ProfileEventMessage{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		ProfileID:     p.ID,
		UserID:        p.UserID,
		DayPillar:     p.DayPillar,
		StrengthLabel: p.StrengthLabel,
		RequestID:     requestID,
		OccurredAt:    s.now().UTC(),
	}
	if _, err := s.publisher.PublishProfileEvent(ctx, evt); err != nil {
		metrics.ProfileEventsPublished.WithLabelValues(eventType, "error").Inc()
		logger.Warn(ctx, "failed to publish profile event", "event_type", eventType, "profile_id", p.ID, "error", err.Error())
		return
	}
	metrics.ProfileEventsPublished.WithLabelValues(eventType, "ok").Inc()
}

func (s *Service) observe(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		if appErr := apperrors.AsAppError(err); appErr.HTTPStatus < 500 {
			status = "rejected"
		}
	}
	metrics.ProfileOperationsTotal.WithLabelValues(operation, status).Inc()
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperrors.ErrUnauthorized.WithDetail("user id is required")
	}
	return nil
}

func elementStrings(elements []domainbazi.Element) []string {
	out := make([]string, len(elements))
	for i, e := range elements {
		out[i] = string(e)
	}
	return out
}
