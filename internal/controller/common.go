package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID parses a numeric path parameter. The bool result is false when the
// value is missing or not a positive integer.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
