package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/ctxutil"
)

func TestRequireCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := uuid.New()

	cases := []struct {
		name       string
		userHeader string
		wsHeader   string
		wantStatus int
		wantWS     string
	}{
		{name: "missing", wantStatus: http.StatusUnauthorized},
		{name: "not a uuid", userHeader: "bob", wantStatus: http.StatusUnauthorized},
		{name: "default workspace", userHeader: user.String(), wantStatus: http.StatusOK, wantWS: user.String()},
		{name: "explicit workspace", userHeader: user.String(), wsHeader: " team-7 ", wantStatus: http.StatusOK, wantWS: "team-7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotWS string
			r := gin.New()
			r.Use(AttachTraceContext(), RequireCaller())
			r.GET("/x", func(c *gin.Context) {
				rd := ctxutil.GetRequestData(c.Request.Context())
				if rd == nil || rd.UserID != user {
					t.Errorf("request data = %+v", rd)
				}
				gotWS = rd.Workspace
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.userHeader != "" {
				req.Header.Set(HeaderUserID, tc.userHeader)
			}
			if tc.wsHeader != "" {
				req.Header.Set(HeaderWorkspaceID, tc.wsHeader)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if gotWS != tc.wantWS {
				t.Fatalf("workspace = %q, want %q", gotWS, tc.wantWS)
			}
			if rec.Header().Get(headerRequestID) == "" {
				t.Fatalf("missing %s header", headerRequestID)
			}
		})
	}
}
