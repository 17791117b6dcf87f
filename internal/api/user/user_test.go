package user

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"social-backend/internal/middleware"
	"social-backend/internal/model"
	"social-backend/internal/service"
	serviceErrors "social-backend/internal/service/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserService 是 UserServiceInterface 的模拟实现
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) user(args mock.Arguments) (*model.User, error) {
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserService) SyncUser(ctx context.Context, in service.SyncUserInput) (*model.User, bool, error) {
	args := m.Called(ctx, in)
	u, _ := args.Get(0).(*model.User)
	return u, args.Bool(1), args.Error(2)
}

func (m *MockUserService) ResolveExternalID(ctx context.Context, externalID string) (string, error) {
	args := m.Called(ctx, externalID)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) GetCurrentUser(ctx context.Context, userID string) (*model.User, error) {
	return m.user(m.Called(ctx, userID))
}

func (m *MockUserService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserService) GetUserProfile(ctx context.Context, username string) (*model.User, error) {
	return m.user(m.Called(ctx, username))
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, update model.ProfileUpdate) (*model.User, error) {
	return m.user(m.Called(ctx, userID, update))
}

// 确保 MockUserService 实现了 UserServiceInterface
var _ service.UserServiceInterface = (*MockUserService)(nil)

func newRouter(svc *MockUserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := NewAuthHandler(svc)
	profile := NewProfileHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextExternalID, "ext_1")
		c.Set(middleware.ContextUserID, "u1")
		c.Next()
	})
	r.POST("/users/sync", auth.SyncUser)
	r.GET("/users/me", auth.GetCurrentUser)
	r.GET("/users/profile/:username", profile.GetProfile)
	r.PUT("/users/profile", profile.UpdateProfile)
	r.GET("/users/:id", profile.GetUserByID)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestSyncUser 测试首次同步和重复同步
func TestSyncUser(t *testing.T) {
	svc := new(MockUserService)
	r := newRouter(svc)

	in := service.SyncUserInput{ExternalID: "ext_1", Email: "jane@example.com", Username: "jane"}
	u := &model.User{ID: "u1", ExternalID: "ext_1", Username: "jane"}
	svc.On("SyncUser", mock.Anything, in).Return(u, true, nil).Once()
	svc.On("SyncUser", mock.Anything, in).Return(u, false, nil).Once()

	body := `{"email":"jane@example.com","username":"jane"}`
	w := doRequest(r, http.MethodPost, "/users/sync", body)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"User created successfully"`)

	w = doRequest(r, http.MethodPost, "/users/sync", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"User already exists"`)
	svc.AssertExpectations(t)
}

func TestSyncUserWithoutBody(t *testing.T) {
	svc := new(MockUserService)
	r := newRouter(svc)

	svc.On("SyncUser", mock.Anything, service.SyncUserInput{ExternalID: "ext_1"}).
		Return(&model.User{ID: "u1", Username: "user"}, true, nil)

	w := doRequest(r, http.MethodPost, "/users/sync", "")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSyncUserInvalidEmail(t *testing.T) {
	svc := new(MockUserService)
	r := newRouter(svc)

	w := doRequest(r, http.MethodPost, "/users/sync", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid user data"}`, w.Body.String())
	svc.AssertNotCalled(t, "SyncUser", mock.Anything, mock.Anything)
}

func TestGetProfileNotFound(t *testing.T) {
	svc := new(MockUserService)
	r := newRouter(svc)

	svc.On("GetUserProfile", mock.Anything, "ghost").
		Return(nil, serviceErrors.New(serviceErrors.ErrNotFound, "User not found"))

	w := doRequest(r, http.MethodGet, "/users/profile/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, w.Body.String())
}

func TestUpdateProfile(t *testing.T) {
	svc := new(MockUserService)
	r := newRouter(svc)

	svc.On("UpdateProfile", mock.Anything, "u1", mock.MatchedBy(func(u model.ProfileUpdate) bool {
		return u.Bio != nil && *u.Bio == "gopher" && u.FirstName == nil
	})).Return(&model.User{ID: "u1", Bio: "gopher"}, nil)

	w := doRequest(r, http.MethodPut, "/users/profile", `{"bio":"gopher"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bio":"gopher"`)
	svc.AssertExpectations(t)
}

func TestUpdateProfileBioTooLong(t *testing.T) {
	svc := new(MockUserService)
	r := newRouter(svc)

	long := bytes.Repeat([]byte("a"), 161)
	w := doRequest(r, http.MethodPut, "/users/profile", `{"bio":"`+string(long)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid profile data"}`, w.Body.String())
}

func TestGetCurrentUser(t *testing.T) {
	svc := new(MockUserService)
	r := newRouter(svc)

	svc.On("GetCurrentUser", mock.Anything, "u1").Return(&model.User{ID: "u1", Username: "jane"}, nil)

	w := doRequest(r, http.MethodGet, "/users/me", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"jane"`)
}
