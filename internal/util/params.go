package util

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamID parses a numeric path parameter such as a contest or problem id.
func ParamID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return uint(id), nil
}
