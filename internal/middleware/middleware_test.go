package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/vineyard/internal/app/models"
	"github.com/yigit/vineyard/internal/app/models/dto"
	"github.com/yigit/vineyard/internal/pkg/apperrors"
	"github.com/yigit/vineyard/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorDetail {
	t.Helper()
	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"not found", apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"wrapped not found", fmt.Errorf("loading: %w", apperrors.ErrStudentNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"invalid weight", apperrors.ErrInvalidWeight, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"bad request", apperrors.NewBadRequestError("nope"), http.StatusBadRequest, dto.ErrorCodeBadRequest},
		{"forbidden", apperrors.NewForbiddenError("heads only"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"invalid token", apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"conflict", apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func newAuthRouter(jwtService *auth.JWTService, roles ...models.RoleType) *gin.Engine {
	m := NewAuthMiddleware(jwtService)
	r := gin.New()
	r.GET("/secure", m.JWTAuth(), m.RoleRequired(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":     c.GetInt64(ContextUserID),
			"identifier": c.GetString(ContextIdentifier),
			"role":       c.GetString(ContextRoleType),
		})
	})
	return r
}

func TestJWTAuthAndRoleRequired(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	router := newAuthRouter(jwtService, models.RoleTeacher, models.RoleHead)

	sign := func(role models.RoleType) string {
		token, _, err := jwtService.GenerateAccessToken(&models.User{ID: 9, Identifier: "t9", RoleType: role})
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name   string
		header string
		status int
		code   dto.ErrorCode
		role   string
	}{
		{"missing header", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized, ""},
		{"no bearer prefix", sign(models.RoleTeacher), http.StatusUnauthorized, dto.ErrorCodeUnauthorized, ""},
		{"garbage token", "Bearer a.b.c", http.StatusUnauthorized, dto.ErrorCodeInvalidToken, ""},
		{"wrong role", "Bearer " + sign(models.RoleStudent), http.StatusForbidden, dto.ErrorCodeForbidden, ""},
		{"teacher", "Bearer " + sign(models.RoleTeacher), http.StatusOK, "", "TEACHER"},
		{"head", "Bearer " + sign(models.RoleHead), http.StatusOK, "", "HEAD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, w).Code)
				return
			}
			assert.JSONEq(t, `{"userID": 9, "identifier": "t9", "role": "`+tt.role+`"}`, w.Body.String())
		})
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", AccessTokenExp: -time.Minute})
	token, _, err := jwtService.GenerateAccessToken(&models.User{ID: 1, RoleType: models.RoleHead})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newAuthRouter(jwtService, models.RoleHead).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeExpiredToken, decodeError(t, w).Code)
}

type sampleBody struct {
	Name  string `json:"name" binding:"required"`
	Count int    `json:"count" binding:"min=1"`
}

func TestValidateRequest(t *testing.T) {
	r := gin.New()
	r.POST("/", ValidateRequest[sampleBody](), func(c *gin.Context) {
		body, ok := ValidatedBody[sampleBody](c)
		require.True(t, ok)
		c.JSON(http.StatusOK, body)
	})

	post := func(payload string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"name": "x", "count": 2}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name": "x", "count": 2}`, w.Body.String())

	w = post(`{"count": 0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	detail := decodeError(t, w)
	assert.Equal(t, dto.ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "name", detail.Field)

	w = post(`{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeBadRequest, decodeError(t, w).Code)
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()))
	r.GET("/teapot", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
