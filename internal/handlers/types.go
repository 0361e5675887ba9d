package handlers

import (
	"github.com/labstack/echo/v4"
)

// getUintFromContext safely extracts a uint value set by the auth middleware
func getUintFromContext(c echo.Context, key string) uint {
	if val := c.Get(key); val != nil {
		if id, ok := val.(uint); ok {
			return id
		}
	}
	return 0
}

// listResponse is the common envelope for paginated listings
type listResponse struct {
	Data interface{} `json:"data"`
	Meta interface{} `json:"meta"`
}
