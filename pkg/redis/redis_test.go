package redis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockClient(t *testing.T) (*Client, redismock.ClientMock) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	return &Client{rdb: rdb}, mock
}

func TestSetWithExpiration(t *testing.T) {
	client, mock := mockClient(t)
	mock.ExpectSet("trust:suspicious:gen", "abc", 30*time.Second).SetVal("OK")

	err := client.SetWithExpiration(context.Background(), "trust:suspicious:gen", "abc", 30*time.Second)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetWithoutExpiration(t *testing.T) {
	client, mock := mockClient(t)
	mock.ExpectSet("trust:suspicious:gen", "abc", 0).SetVal("OK")

	err := client.SetWithExpiration(context.Background(), "trust:suspicious:gen", "abc", 0)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStringHit(t *testing.T) {
	client, mock := mockClient(t)
	mock.ExpectGet("key").SetVal("cached")

	val, err := client.GetString(context.Background(), "key")

	require.NoError(t, err)
	assert.Equal(t, "cached", val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStringMissIsNotAnError(t *testing.T) {
	client, mock := mockClient(t)
	mock.ExpectGet("absent").RedisNil()

	val, err := client.GetString(context.Background(), "absent")

	require.NoError(t, err)
	assert.Equal(t, "", val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStringSurfacesInfrastructureErrors(t *testing.T) {
	client, mock := mockClient(t)
	mock.ExpectGet("key").SetErr(assert.AnError)

	_, err := client.GetString(context.Background(), "key")

	require.Error(t, err)
}

func TestPing(t *testing.T) {
	client, mock := mockClient(t)
	mock.ExpectPing().SetVal("PONG")

	require.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
