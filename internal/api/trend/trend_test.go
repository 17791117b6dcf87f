package trend

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"social-backend/internal/model"
	"social-backend/internal/service"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTrendService struct {
	mock.Mock
}

func (m *MockTrendService) RecordSearch(ctx context.Context, term string) error {
	return m.Called(ctx, term).Error(0)
}

func (m *MockTrendService) GetTrends(ctx context.Context) ([]*model.Trend, error) {
	args := m.Called(ctx)
	trends, _ := args.Get(0).([]*model.Trend)
	return trends, args.Error(1)
}

var _ service.TrendServiceInterface = (*MockTrendService)(nil)

func newRouter(svc *MockTrendService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	util.RegisterValidators()

	h := NewTrendHandler(svc)
	r := gin.New()
	r.GET("/trends", h.GetTrends)
	r.POST("/trends", h.RecordSearch)
	return r
}

func TestRecordSearch(t *testing.T) {
	svc := new(MockTrendService)
	r := newRouter(svc)

	svc.On("RecordSearch", mock.Anything, "#Golang").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/trends", bytes.NewBufferString(`{"searchTerm":"#Golang"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Search trend saved"}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestRecordSearchBlank(t *testing.T) {
	svc := new(MockTrendService)
	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/trends", bytes.NewBufferString(`{"searchTerm":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Search term is required"}`, w.Body.String())
	svc.AssertNotCalled(t, "RecordSearch", mock.Anything, mock.Anything)
}

func TestGetTrends(t *testing.T) {
	svc := new(MockTrendService)
	r := newRouter(svc)

	svc.On("GetTrends", mock.Anything).Return([]*model.Trend{
		{ID: "t1", Topic: "#go", PostCount: 3, SearchCount: 9},
	}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trends", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"topic":"#go"`)
	assert.Contains(t, w.Body.String(), `"searchCount":9`)
}
