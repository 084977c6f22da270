package helpers

import (
	"strconv"

	"github.com/google/uuid"
)

// ParsePagination reads page/limit query strings with the usual defaults.
func ParsePagination(pageStr, limitStr string) (page, limit int, err error) {
	page, err = strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return 0, 0, Invalid("Invalid page number.")
	}
	limit, err = strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > 100 {
		return 0, 0, Invalid("Invalid limit.")
	}
	return page, limit, nil
}

func ParseUUID(s, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, Invalid("Invalid " + what + ".")
	}
	return id, nil
}
