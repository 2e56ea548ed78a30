package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"app/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// AuthJWTが検証済みトークンから取り出してcontextへ積むキー
const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserRoleKey     = "user_role"     // string
	CtxTokenVersionKey = "token_version" // int
)

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// アクセストークンが運ぶ本人情報
type identity struct {
	UserID       int64
	Role         string
	TokenVersion int
}

// AuthJWTはAuthorization: Bearerのアクセストークンを検証して
// sub/role/tvをcontextに入れる。失敗理由は外に出さず一律401
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				//HS256固定。alg=noneや鍵すり替え系はここで落とす
				if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			id, err := identityFromClaims(claims)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			c.Set(CtxUserIDKey, id.UserID)
			c.Set(CtxUserRoleKey, id.Role)
			c.Set(CtxTokenVersionKey, id.TokenVersion)

			return next(c)
		}
	}
}

// Authorizationヘッダからトークン本体を取り出す。Bearer以外は空を返す
func bearerToken(c echo.Context) string {
	authz := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// subは数値で入れてもJSON経由でfloat64になる。文字列のsubも許容
func identityFromClaims(claims jwt.MapClaims) (identity, error) {
	var id identity

	switch sub := claims["sub"].(type) {
	case float64:
		id.UserID = int64(sub)
	case string:
		v, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return identity{}, err
		}
		id.UserID = v
	default:
		return identity{}, errors.New("sub missing")
	}
	if id.UserID <= 0 {
		return identity{}, errors.New("invalid sub")
	}

	role, _ := claims["role"].(string)
	if role == "" {
		return identity{}, errors.New("role missing")
	}
	id.Role = role

	tv, ok := claims["tv"].(float64)
	if !ok || tv < 0 {
		return identity{}, errors.New("tv missing")
	}
	id.TokenVersion = int(tv)

	return id, nil
}
