package middleware

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/api_access_gate/internal/pkg/jwt"
	"github.com/qs3c/api_access_gate/internal/pkg/response"
)

const (
	SubjectKey = "subject"
	RoleKey    = "role"
)

// Auth JWT 认证中间件，roles 非空时只放行其中的角色
func Auth(jwtSecret string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "请提供认证信息")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "认证失败或已过期")
			c.Abort()
			return
		}

		if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
			response.PermissionError(c, "当前角色无权访问")
			c.Abort()
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// GetSubject 从上下文获取 token subject
func GetSubject(c *gin.Context) (string, bool) {
	v, exists := c.Get(SubjectKey)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetRole 从上下文获取角色
func GetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(RoleKey)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
