package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/vineyard/internal/app/models/dto"
)

// ValidatedBodyKey is the context key ValidateRequest stores the bound body under.
const ValidatedBodyKey = "validatedBody"

// ValidateRequest binds the JSON body into a fresh *T, runs the binding
// validators and stores the result under ValidatedBodyKey.
func ValidateRequest[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		body := new(T)
		if err := c.ShouldBindJSON(body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return
		}

		c.Set(ValidatedBodyKey, body)
		c.Next()
	}
}

// ValidatedBody returns the body stored by ValidateRequest.
func ValidatedBody[T any](c *gin.Context) (*T, bool) {
	v, ok := c.Get(ValidatedBodyKey)
	if !ok {
		return nil, false
	}
	body, ok := v.(*T)
	return body, ok
}
