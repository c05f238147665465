package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// newMiniredisClient starts an in-process server and a client bound to it.
// Both are closed when the test ends.
func newMiniredisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: server.Addr(), DB: 0})
	t.Cleanup(func() { _ = client.Close() })

	return client, server
}
