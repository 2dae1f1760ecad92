package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/http/response"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/ctxutil"
)

var errNoCaller = errors.New("caller identity missing")

// caller reads the identity attached by middleware.RequireCaller. It writes a
// 401 and returns false when there is none.
func caller(c *gin.Context) (uuid.UUID, string, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errNoCaller)
		return uuid.Nil, "", false
	}
	return rd.UserID, rd.Workspace, true
}
