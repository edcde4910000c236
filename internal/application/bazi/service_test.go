package bazi

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbazi "octa-bazi-api/internal/domain/bazi"
	"octa-bazi-api/internal/domain/narrative"
	apperrors "octa-bazi-api/pkg/errors"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

// memoryCache 进程内缓存，行为与 Redis 实现一致：命中返回原始字节，未命中调用 loader 并写入 JSON
type memoryCache struct {
	mu    sync.Mutex
	data  map[string][]byte
	loads int
	err   error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) GetOrLoadSafe(_ context.Context, key string, _ time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	c.loads++
	v, err := loader()
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	c.data[key] = b
	return b, nil
}

func newTestService(t *testing.T, cache Cache) *Service {
	t.Helper()
	table, err := narrative.Default()
	require.NoError(t, err)
	calc := domainbazi.NewCalculator(domainbazi.WithClock(func() time.Time { return fixedNow }))
	return NewService(calc, table, cache, Config{})
}

func TestAnalyzeWithoutCache(t *testing.T) {
	svc := newTestService(t, nil)

	a, err := svc.Analyze(context.Background(), domainbazi.BirthInput{Date: domainbazi.NewDate(1990, time.January, 1)})
	require.NoError(t, err)

	assert.Equal(t, "丙寅", a.Chart.DayPillarText())
	assert.False(t, a.Chart.HasHour())
	assert.Equal(t, domainbazi.LabelStrong, a.Strength.Label)
	assert.InDelta(t, 78.92, a.Strength.Score, 0.01)

	want := domainbazi.Luck{
		Lucky:      []domainbazi.Element{domainbazi.Metal, domainbazi.Earth},
		Unlucky:    []domainbazi.Element{domainbazi.Fire, domainbazi.Wood},
		Directions: domainbazi.LuckyDirections([]domainbazi.Element{domainbazi.Metal, domainbazi.Earth}),
		Colors:     domainbazi.LuckyColors([]domainbazi.Element{domainbazi.Metal, domainbazi.Earth}),
	}
	if diff := cmp.Diff(want, a.Luck); diff != "" {
		t.Errorf("luck mismatch (-want +got):\n%s", diff)
	}

	require.NotNil(t, a.Narrative)
	assert.False(t, a.NarrativeMissing)
	assert.True(t, strings.HasPrefix(a.Narrative.Nayin, "炉中火"))
}

func TestAnalyzeUsesCache(t *testing.T) {
	cache := newMemoryCache()
	svc := newTestService(t, cache)
	in := domainbazi.BirthInput{
		Date:      domainbazi.NewDate(1990, time.May, 15),
		Time:      &domainbazi.TimeOfDay{Hour: 14, Minute: 30},
		Zone:      time.FixedZone("CST", 8*3600),
		Longitude: func() *float64 { v := 116.4; return &v }(),
	}

	first, err := svc.Analyze(context.Background(), in)
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 1, cache.loads)
	assert.Equal(t, first.Chart.DayPillarText(), second.Chart.DayPillarText())
	require.NotNil(t, second.Chart.Hour)
	assert.Equal(t, "癸未", second.Chart.Hour.String())
	assert.Equal(t, first.Strength.Label, second.Strength.Label)
	assert.InDelta(t, first.Strength.Score, second.Strength.Score, 1e-9)
	if diff := cmp.Diff(first.Luck, second.Luck); diff != "" {
		t.Errorf("cached luck mismatch (-first +second):\n%s", diff)
	}
}

func TestAnalyzeFallsBackWhenCacheFails(t *testing.T) {
	cache := newMemoryCache()
	cache.err = errors.New("connection refused")
	svc := newTestService(t, cache)

	a, err := svc.Analyze(context.Background(), domainbazi.BirthInput{Date: domainbazi.NewDate(2000, time.January, 1)})
	require.NoError(t, err)
	assert.Equal(t, "戊午", a.Chart.DayPillarText())
}

func TestAnalyzeRejectsInvalidInputBeforeCache(t *testing.T) {
	cache := newMemoryCache()
	svc := newTestService(t, cache)

	_, err := svc.Analyze(context.Background(), domainbazi.BirthInput{Date: domainbazi.NewDate(1899, time.December, 31)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidParam))

	_, err = svc.Analyze(context.Background(), domainbazi.BirthInput{Date: domainbazi.NewDate(2025, time.June, 2)})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidParam))
	assert.Zero(t, cache.loads)
}

func TestAnalyzeReportsMissingNarrative(t *testing.T) {
	table, err := narrative.Parse([]byte(`{"version":"partial","mapping":{"甲子":{"身强":{"components":{"纳音":"海中金","舒适区":"a","能量来源":"b","相冲能量":"c"}}}}}`))
	require.NoError(t, err)
	calc := domainbazi.NewCalculator(domainbazi.WithClock(func() time.Time { return fixedNow }))
	svc := NewService(calc, table, nil, Config{})

	a, err := svc.Analyze(context.Background(), domainbazi.BirthInput{Date: domainbazi.NewDate(1990, time.January, 1)})
	require.NoError(t, err)
	assert.Nil(t, a.Narrative)
	assert.True(t, a.NarrativeMissing)
	assert.NotEmpty(t, a.Luck.Lucky)
}

func TestGetNarrative(t *testing.T) {
	svc := newTestService(t, nil)

	entry, err := svc.GetNarrative(context.Background(), "甲子", "weak")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ConflictingEnergy)

	_, err = svc.GetNarrative(context.Background(), "甲丑", "身强")
	assert.True(t, errors.Is(err, apperrors.ErrNarrativeNotFound))

	_, err = svc.GetNarrative(context.Background(), "", "身强")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidParam))
}

func TestCacheKeyDistinguishesInputs(t *testing.T) {
	svc := newTestService(t, nil)
	d := domainbazi.NewDate(1990, time.May, 15)
	lon := 116.4

	a := svc.cacheKey(domainbazi.BirthInput{Date: d})
	b := svc.cacheKey(domainbazi.BirthInput{Date: d, Time: &domainbazi.TimeOfDay{Hour: 8}, Longitude: &lon})
	c := svc.cacheKey(domainbazi.BirthInput{Date: d, Time: &domainbazi.TimeOfDay{Hour: 8}, Longitude: &lon, Zone: time.UTC})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, b, c)
	assert.True(t, strings.HasPrefix(a, "octa:bazi:analysis:"))
	assert.Contains(t, b, "08:00:00")
}
