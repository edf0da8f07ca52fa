package handler

import (
	"net/http"

	"go-ticket-ledger/internal/model"

	"github.com/gin-gonic/gin"
)

// CallerHeader 執行環境提供的呼叫者身份；核心只做相等比較，
// 驗證這個身份的真偽屬於外部邊界（反向代理 / API gateway）
const CallerHeader = "X-Caller-ID"

const callerContextKey = "caller_identity"

// CallerIdentity 把 caller header 放進 request context
func CallerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(CallerHeader); id != "" {
			c.Set(callerContextKey, id)
		}
		c.Next()
	}
}

// RequireCaller 取出呼叫者身份；變更類操作缺少身份一律 401
func RequireCaller(c *gin.Context) (model.Identity, bool) {
	id := c.GetString(callerContextKey)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing caller identity"})
		return "", false
	}
	return model.Identity(id), true
}
