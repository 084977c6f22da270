package helpers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorStatusCode(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindSoldOut, http.StatusConflict},
		{KindConflict, http.StatusConflict},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindInvalid, http.StatusBadRequest},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NewError(tc.kind, "message").StatusCode(), "kind %s", tc.kind)
	}
}

func TestIsKind(t *testing.T) {
	err := SoldOut("Tickets for this type are sold out.")
	assert.True(t, IsKind(err, KindSoldOut))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindSoldOut))
	assert.False(t, IsKind(nil, KindSoldOut))

	wrapped := WrapError(KindInternal, "saving ticket", errors.New("disk full"))
	assert.True(t, IsKind(wrapped, KindInternal))
	assert.Contains(t, wrapped.Error(), "disk full")
}
