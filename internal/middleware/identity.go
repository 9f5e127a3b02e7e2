package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// SubjectID returns the authenticated owner id that JWTAuth stored under
// "user_id".  Numeric JSON claims decode as float64, string subjects are
// parsed.
func SubjectID(c echo.Context) (uint64, bool) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, t > 0
	case int64:
		return uint64(t), t > 0
	case int:
		return uint64(t), t > 0
	case float64:
		return uint64(t), t > 0
	case string:
		n, err := strconv.ParseUint(t, 10, 64)
		return n, err == nil && n > 0
	}
	return 0, false
}

// subjectKey is the rate limit identity: the owner id or "anon".
func subjectKey(c echo.Context) string {
	if id, ok := SubjectID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
