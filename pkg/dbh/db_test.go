package dbh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDBNotExist(t *testing.T) {
	require.False(t, DBNotExistRegex.MatchString(`does not exist`))
	require.True(t, DBNotExistRegex.MatchString(`database "foobar" does not exist`))
	require.False(t, DBNotExistRegex.MatchString(`table "foobar" does not exist`))
	require.False(t, DBNotExistRegex.MatchString(`"foobar" does not exist`))
}

func TestIsKeyViolation(t *testing.T) {
	require.False(t, IsKeyViolation(nil))
	require.False(t, IsKeyViolation(errors.New("no such table: user")))
	require.True(t, IsKeyViolation(errors.New("UNIQUE constraint failed: user.username")))
	require.True(t, IsKeyViolation(errors.New(`pq: duplicate key value violates unique constraint "user_username_key"`)))
}
