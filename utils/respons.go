package utils

import (
	"github.com/gin-gonic/gin"
)

// RespondJSON writes {ok, message, ...payload}. The booking client reads the
// payload fields at the top level, so they are merged rather than nested.
func RespondJSON(c *gin.Context, code int, message string, payload gin.H) {
	body := gin.H{}
	for k, v := range payload {
		body[k] = v
	}
	body["ok"] = code >= 200 && code < 300
	body["message"] = message
	c.JSON(code, body)
}

func RespondError(c *gin.Context, code int, err error) {
	RespondJSON(c, code, err.Error(), nil)
}

