package unit

import (
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/repository"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mwErrorResponse struct {
	Error string `json:"error"`
}

type mwIdentityResponse struct {
	UserID       int64  `json:"user_id"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

type mwUserRepoMock struct {
	mock.Mock
}

func (m *mwUserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mwUserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mwUserRepoMock) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mwUserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mwUserRepoMock) IncrementTokenVersion(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ repository.UserRepository = (*mwUserRepoMock)(nil)

// subに任意の型を入れられるようinterface{}で受ける
func signAccessToken(t *testing.T, secret string, sub interface{}, role string, tv int, method jwt.SigningMethod) string {
	t.Helper()

	token := jwt.NewWithClaims(method, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"tv":   tv,
		"iat":  1,
		"exp":  9999999999,
	})

	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

// 保護ルートを1本立てて、Authorizationヘッダ付きで叩く
func newProtectedEcho(mws ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		userID, _ := c.Get(middleware.CtxUserIDKey).(int64)
		role, _ := c.Get(middleware.CtxUserRoleKey).(string)
		tv, _ := c.Get(middleware.CtxTokenVersionKey).(int)

		return c.JSON(http.StatusOK, mwIdentityResponse{
			UserID:       userID,
			Role:         role,
			TokenVersion: tv,
		})
	}, mws...)
	return e
}

func doBearerRequest(t *testing.T, e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func requireMWUnauthorized(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body mwErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	assert.Equal(t, "unauthorized", body.Error)
}

// Authorizationヘッダなし => 401
func TestMiddleware_AuthJWT_NoHeader(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newProtectedEcho(middleware.AuthJWT(cfg))

	rec := doBearerRequest(t, e, "")
	requireMWUnauthorized(t, rec)
}

// Bearer以外のスキーム => 401
func TestMiddleware_AuthJWT_BadScheme(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newProtectedEcho(middleware.AuthJWT(cfg))

	rec := doBearerRequest(t, e, "Token abc.def.ghi")
	requireMWUnauthorized(t, rec)
}

// 別のシークレットで署名 => 401
func TestMiddleware_AuthJWT_BadSignature(t *testing.T) {
	cfg := config.Config{JWTSecret: "correct-secret"}
	e := newProtectedEcho(middleware.AuthJWT(cfg))

	raw := signAccessToken(t, "wrong-secret", int64(1), "USER", 0, jwt.SigningMethodHS256)

	rec := doBearerRequest(t, e, "Bearer "+raw)
	requireMWUnauthorized(t, rec)
}

// HS256以外のアルゴリズム => 401
func TestMiddleware_AuthJWT_WrongAlg(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newProtectedEcho(middleware.AuthJWT(cfg))

	raw := signAccessToken(t, cfg.JWTSecret, int64(1), "USER", 0, jwt.SigningMethodHS512)

	rec := doBearerRequest(t, e, "Bearer "+raw)
	requireMWUnauthorized(t, rec)
}

// 正常：sub/role/tvがcontextに入る
func TestMiddleware_AuthJWT_SetsContext(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newProtectedEcho(middleware.AuthJWT(cfg))

	raw := signAccessToken(t, cfg.JWTSecret, int64(123), "USER", 7, jwt.SigningMethodHS256)

	rec := doBearerRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body mwIdentityResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	assert.Equal(t, int64(123), body.UserID)
	assert.Equal(t, "USER", body.Role)
	assert.Equal(t, 7, body.TokenVersion)
}

// subが文字列のトークンも受け付ける
func TestMiddleware_AuthJWT_StringSubject(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newProtectedEcho(middleware.AuthJWT(cfg))

	raw := signAccessToken(t, cfg.JWTSecret, "42", "ADMIN", 0, jwt.SigningMethodHS256)

	rec := doBearerRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body mwIdentityResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	assert.Equal(t, int64(42), body.UserID)
	assert.Equal(t, "ADMIN", body.Role)
}

// AuthJWTを通さずGuardだけ => 401
func TestMiddleware_TokenVersionGuard_MissingContext(t *testing.T) {
	userRepo := new(mwUserRepoMock)
	e := newProtectedEcho(middleware.TokenVersionGuard(userRepo))

	rec := doBearerRequest(t, e, "")
	requireMWUnauthorized(t, rec)
}

// JWTのtvとDBのtoken_versionが不一致 => 401（強制ログアウト済み）
func TestMiddleware_TokenVersionGuard_VersionMismatch(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	userRepo := new(mwUserRepoMock)

	userRepo.On("FindByID", mock.Anything, int64(1)).Return(&model.User{
		ID:           1,
		Email:        "user@test.com",
		Role:         model.RoleUser,
		TokenVersion: 1,
		IsActive:     true,
	}, nil)

	e := newProtectedEcho(middleware.AuthJWT(cfg), middleware.TokenVersionGuard(userRepo))

	raw := signAccessToken(t, cfg.JWTSecret, int64(1), "USER", 0, jwt.SigningMethodHS256)

	rec := doBearerRequest(t, e, "Bearer "+raw)
	requireMWUnauthorized(t, rec)

	userRepo.AssertExpectations(t)
}

// tv一致 => 通す
func TestMiddleware_TokenVersionGuard_VersionMatch(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	userRepo := new(mwUserRepoMock)

	userRepo.On("FindByID", mock.Anything, int64(1)).Return(&model.User{
		ID:           1,
		Email:        "user@test.com",
		Role:         model.RoleUser,
		TokenVersion: 5,
		IsActive:     true,
	}, nil)

	e := newProtectedEcho(middleware.AuthJWT(cfg), middleware.TokenVersionGuard(userRepo))

	raw := signAccessToken(t, cfg.JWTSecret, int64(1), "USER", 5, jwt.SigningMethodHS256)

	rec := doBearerRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)

	userRepo.AssertExpectations(t)
}

// USERは/adminに入れない
func TestMiddleware_AdminRoleGuard_UserForbidden(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newProtectedEcho(middleware.AuthJWT(cfg), middleware.AdminRoleGuard())

	raw := signAccessToken(t, cfg.JWTSecret, int64(1), "USER", 0, jwt.SigningMethodHS256)

	rec := doBearerRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body mwErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	assert.Equal(t, "admin only", body.Error)
}

func TestMiddleware_AdminRoleGuard_AdminAllowed(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newProtectedEcho(middleware.AuthJWT(cfg), middleware.AdminRoleGuard())

	raw := signAccessToken(t, cfg.JWTSecret, int64(1), "ADMIN", 0, jwt.SigningMethodHS256)

	rec := doBearerRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)
}
