package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/ctxutil"
)

const (
	HeaderUserID      = "X-User-ID"
	HeaderWorkspaceID = "X-Workspace-ID"
)

// RequireCaller resolves the caller from headers set by the upstream gateway.
// The workspace defaults to the user id.
func RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderUserID))
		userID, err := uuid.Parse(raw)
		if raw == "" || err != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid " + HeaderUserID, "code": "unauthorized"},
			})
			return
		}
		ws := strings.TrimSpace(c.GetHeader(HeaderWorkspaceID))
		if ws == "" {
			ws = userID.String()
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			UserID:    userID,
			Workspace: ws,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
