// Package respond renders the uniform result envelope returned by every
// mutation and query endpoint:
//
//	{"success": true,  "data": ...}
//	{"success": false, "error": "..."}
package respond

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/oneiro-app/oneiro/pkg/oneiro/apperr"
)

// Result is the discriminated envelope shared by all endpoints.
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK writes a success envelope with the given HTTP status.
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Result{Success: true, Data: data})
}

// Fail writes a failure envelope. Errors from the apperr taxonomy keep their
// message and mapped status; anything else is logged and replaced by the
// generic fallback so internal storage details never reach a client.
func Fail(c *gin.Context, err error, fallback string) {
	msg := fallback
	if apperr.IsExpected(err) {
		msg = err.Error()
	} else {
		log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
	}
	c.JSON(apperr.StatusCode(err), Result{Success: false, Error: msg})
}
