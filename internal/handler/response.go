package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError maps an application error to its HTTP status, defaulting to
// 500 for anything without one.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if coded, ok := err.(interface{ StatusCode() int }); ok {
		status = coded.StatusCode()
	}
	_ = c.Error(err)
	c.JSON(status, NewErrorResponse(err.Error()))
}

// UserID returns the authenticated owner id placed in the context by the auth
// middleware.
func UserID(c *gin.Context) string {
	return c.GetString("user_id")
}
