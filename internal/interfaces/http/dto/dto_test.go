package dto

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"octa-bazi-api/internal/domain/bazi"
	"octa-bazi-api/internal/domain/entity"
	"octa-bazi-api/internal/domain/repository"
	apperrors "octa-bazi-api/pkg/errors"
)

func ptr[T any](v T) *T { return &v }

func TestToBirthInput(t *testing.T) {
	resolve := func(string) float64 { return 121.5 }

	in, err := (&BirthRequest{BirthDate: "1990-05-15", BirthTime: "14:30", Timezone: "UTC", BirthLocation: "Shanghai"}).ToBirthInput(resolve)
	require.NoError(t, err)
	assert.Equal(t, bazi.NewDate(1990, time.May, 15), in.Date)
	require.NotNil(t, in.Time)
	assert.Equal(t, bazi.TimeOfDay{Hour: 14, Minute: 30}, *in.Time)
	assert.Equal(t, "UTC", in.Zone.String())
	require.NotNil(t, in.Longitude)
	assert.Equal(t, 121.5, *in.Longitude)

	in, err = (&BirthRequest{BirthDate: "1990-05-15", Longitude: ptr(100.0), BirthLocation: "Shanghai"}).ToBirthInput(resolve)
	require.NoError(t, err)
	assert.Equal(t, 100.0, *in.Longitude, "explicit longitude wins over location")

	in, err = (&BirthRequest{BirthDate: "1990-05-15"}).ToBirthInput(resolve)
	require.NoError(t, err)
	assert.Nil(t, in.Time)
	assert.Nil(t, in.Zone)
	assert.Nil(t, in.Longitude)

	_, err = (&BirthRequest{BirthDate: "May 15"}).ToBirthInput(resolve)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidParam))
}

func TestToStrengthResponseRounds(t *testing.T) {
	resp := ToStrengthResponse(bazi.StrengthAssessment{
		Score:    78.9249,
		Label:    bazi.LabelStrong,
		Seasonal: 1.23456,
		Root:     2.005,
		Stem:     -0.3333,
	})
	assert.Equal(t, 78.9, resp.Score)
	assert.Equal(t, "strong", resp.LabelEn)
	assert.Equal(t, 1.23, resp.Components.Seasonal)
	assert.Equal(t, -0.33, resp.Components.Stem)
}

func TestToProfileResponse(t *testing.T) {
	modified := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	p := &entity.BaziProfile{
		ID:             "bazi_x",
		BirthDate:      time.Date(1990, time.May, 15, 0, 0, 0, 0, time.UTC),
		StrengthScore:  85.8213,
		LastModifiedAt: &modified,
	}

	resp := ToProfileResponse(p, 24*time.Hour)
	assert.Equal(t, "1990-05-15", resp.BirthDate)
	assert.Equal(t, 85.8, resp.StrengthScore)
	assert.Equal(t, "2025-06-02T12:00:00Z", resp.CooldownEndsAt)
	assert.NotNil(t, resp.LuckyElements)
	assert.Nil(t, resp.Chart)

	assert.Nil(t, ToProfileResponse(nil, time.Hour))
}

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDetail string
	}{
		{"invalid param", apperrors.ErrInvalidParam.WithDetail("bad date"), http.StatusBadRequest, "1001", "bad date"},
		{"cooldown", apperrors.ErrProfileCooldown.WithDetail("cooldown_ends_at=x"), http.StatusConflict, "4002", "cooldown_ends_at=x"},
		{"server detail hidden", apperrors.ErrDataIntegrity.WithDetail("missing file /etc/x"), http.StatusInternalServerError, "5003", ""},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "1000", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Set(TraceIDKey, "abc")

			FromError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Code)
			assert.Equal(t, "abc", resp.TraceID)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.ErrorCode)
			assert.Equal(t, tt.wantDetail, resp.Error.Details)
		})
	}
}

func TestPageMetaOf(t *testing.T) {
	r := repository.NewPagedResult([]string{"a"}, 21, repository.NewPagination(2, 10))
	assert.Equal(t, &PageMeta{Page: 2, PageSize: 10, Total: 21, TotalPages: 3, HasNext: true}, PageMetaOf(r))

	empty := repository.NewPagedResult[string](nil, 0, repository.NewPagination(1, 0))
	assert.Equal(t, &PageMeta{Page: 1, PageSize: repository.DefaultPageSize}, PageMetaOf(empty))
}
