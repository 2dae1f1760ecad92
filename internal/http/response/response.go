package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr maps err through apierr.From.
func RespondErr(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

// RespondErrWith is RespondErr with extra top-level fields beside "error".
func RespondErrWith(c *gin.Context, err error, extra gin.H) {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal_error", err)
	}
	msg := "unknown error"
	if ae.Err != nil {
		msg = ae.Err.Error()
	}
	body := gin.H{"error": APIError{Message: msg, Code: ae.Code}}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(ae.Status, body)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
