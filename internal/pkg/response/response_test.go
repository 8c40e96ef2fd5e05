package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	var resp Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func serve(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/test", handler)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSuccess(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Success(c, gin.H{"key": "value"})
	})

	assert.Equal(t, http.StatusOK, w.Code)

	resp := parseResponse(t, w)
	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, "success", resp.Message)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "value", data["key"])
}

func TestSuccess_NilData(t *testing.T) {
	resp := parseResponse(t, serve(func(c *gin.Context) {
		Success(c, nil)
	}))

	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Nil(t, resp.Data)
}

func TestSuccessWithMessage(t *testing.T) {
	resp := parseResponse(t, serve(func(c *gin.Context) {
		SuccessWithMessage(c, "操作成功", gin.H{"result": true})
	}))

	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, "操作成功", resp.Message)
}

func TestSuccessList(t *testing.T) {
	resp := parseResponse(t, serve(func(c *gin.Context) {
		SuccessList(c, 2, []string{"a", "b"})
	}))

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["total"])
	assert.Len(t, data["items"], 2)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name    string
		handler func(c *gin.Context, message string)
		code    int
	}{
		{"param", ParamError, CodeParamError},
		{"auth", AuthError, CodeAuthFailed},
		{"permission", PermissionError, CodePermissionDenied},
		{"not found", NotFoundError, CodeResourceNotFound},
		{"quota", QuotaError, CodeQuotaExceeded},
		{"duplicate", DuplicateError, CodeDuplicateAction},
		{"conflict", ConflictError, CodeConflict},
		{"server", ServerError, CodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name+" default message", func(t *testing.T) {
			w := serve(func(c *gin.Context) {
				tt.handler(c, "")
			})

			assert.Equal(t, http.StatusOK, w.Code)
			resp := parseResponse(t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, codeMessages[tt.code], resp.Message)
			assert.Nil(t, resp.Data)
		})

		t.Run(tt.name+" custom message", func(t *testing.T) {
			resp := parseResponse(t, serve(func(c *gin.Context) {
				tt.handler(c, "自定义")
			}))

			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, "自定义", resp.Message)
		})
	}
}

func TestErrorWithData(t *testing.T) {
	resp := parseResponse(t, serve(func(c *gin.Context) {
		ErrorWithData(c, CodeQuotaExceeded, "", gin.H{"allowed": false})
	}))

	assert.Equal(t, CodeQuotaExceeded, resp.Code)
	assert.Equal(t, "配额不足", resp.Message)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, data["allowed"])
}

func TestCodeMessages_Complete(t *testing.T) {
	codes := []int{
		CodeSuccess, CodeParamError, CodeAuthFailed, CodePermissionDenied,
		CodeResourceNotFound, CodeQuotaExceeded, CodeDuplicateAction,
		CodeConflict, CodeServerError,
	}
	for _, code := range codes {
		assert.NotEmpty(t, codeMessages[code], "code %d should have a message", code)
	}
}
