package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Params is a sanitized page/limit pair. Offset is derived so repositories
// never compute it themselves.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse reads page and limit query parameters, clamping anything the client
// sends to a sane window. Absent or junk values fall back to the defaults.
func Parse(c *gin.Context) Params {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return Params{Page: page, Limit: limit, Offset: (page - 1) * limit}
}
