package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appbazi "octa-bazi-api/internal/application/bazi"
	domainbazi "octa-bazi-api/internal/domain/bazi"
	"octa-bazi-api/internal/domain/entity"
	"octa-bazi-api/internal/domain/narrative"
	"octa-bazi-api/internal/domain/repository"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func newBaziService(t *testing.T) *appbazi.Service {
	t.Helper()
	table, err := narrative.Default()
	require.NoError(t, err)
	calc := domainbazi.NewCalculator(domainbazi.WithClock(func() time.Time { return fixedNow }))
	return appbazi.NewService(calc, table, nil, appbazi.Config{})
}

// doJSON 发送 JSON 请求并返回响应
func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type memoryRepo struct {
	mu       sync.Mutex
	profiles map[string]entity.BaziProfile
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{profiles: map[string]entity.BaziProfile{}}
}

func (r *memoryRepo) Create(_ context.Context, p *entity.BaziProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = *p
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*entity.BaziProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memoryRepo) ListByUser(_ context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.BaziProfile], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*entity.BaziProfile
	for _, p := range r.profiles {
		if p.UserID == userID {
			p := p
			items = append(items, &p)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	total := int64(len(items))
	start := pagination.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + pagination.Limit()
	if end > len(items) {
		end = len(items)
	}
	return repository.NewPagedResult(items[start:end], total, pagination), nil
}

func (r *memoryRepo) Update(_ context.Context, p *entity.BaziProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = *p
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, id)
	return nil
}

func (r *memoryRepo) DeactivateAll(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.profiles {
		if p.UserID == userID {
			p.IsActive = false
			r.profiles[id] = p
		}
	}
	return nil
}

type directTx struct{}

func (directTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
