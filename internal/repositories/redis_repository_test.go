package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ddkspices/storefront/internal/config"
	repository "github.com/ddkspices/storefront/internal/repositories"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotKey = "ddk_cart"

func setupRedisRepoTest(t *testing.T) (repository.CartRepository, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()

	cfg := &config.Config{Cart: config.Cart{Key: snapshotKey}}
	repo := repository.NewRedisCartRepo(client, cfg)
	require.NotNil(t, repo)

	return repo, mock
}

func TestRedisLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing key reports absent, not an error", func(t *testing.T) {
		repo, mock := setupRedisRepoTest(t)
		mock.ExpectGet(snapshotKey).RedisNil()

		snapshot, present, err := repo.Load(ctx)

		require.NoError(t, err)
		assert.False(t, present)
		assert.Nil(t, snapshot)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Returns the stored snapshot bytes", func(t *testing.T) {
		repo, mock := setupRedisRepoTest(t)
		payload := `[{"id":1,"name":"Lal Mirch Powder","price":"₹150","weight":"500g","quantity":2}]`
		mock.ExpectGet(snapshotKey).SetVal(payload)

		snapshot, present, err := repo.Load(ctx)

		require.NoError(t, err)
		assert.True(t, present)
		assert.Equal(t, []byte(payload), snapshot)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Propagates a connection failure", func(t *testing.T) {
		repo, mock := setupRedisRepoTest(t)
		mock.ExpectGet(snapshotKey).SetErr(errors.New("connection refused"))

		_, present, err := repo.Load(ctx)

		require.Error(t, err)
		assert.False(t, present)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisSave(t *testing.T) {
	ctx := context.Background()

	t.Run("Writes the snapshot without expiry", func(t *testing.T) {
		repo, mock := setupRedisRepoTest(t)
		payload := []byte(`[{"id":2,"name":"Haldi Powder","price":"₹120","weight":"500g","quantity":1}]`)
		mock.ExpectSet(snapshotKey, payload, 0).SetVal("OK")

		err := repo.Save(ctx, payload)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Propagates a write failure", func(t *testing.T) {
		repo, mock := setupRedisRepoTest(t)
		payload := []byte(`[]`)
		mock.ExpectSet(snapshotKey, payload, 0).SetErr(errors.New("readonly replica"))

		err := repo.Save(ctx, payload)

		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
