package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/task-tracker-api/internal/config"
	"github.com/BuzzLyutic/task-tracker-api/internal/testutil"
)

func TestOpenDatabase(t *testing.T) {
	uri, terminate := testutil.StartMongo(t)
	defer terminate()
	ctx := context.Background()

	t.Run("connects and creates indexes", func(t *testing.T) {
		client, db, err := openDatabase(ctx, config.Config{MongoURI: uri, MongoDBName: "tasks_app_test", MongoTimeout: 30 * time.Second})
		require.NoError(t, err)
		defer client.Disconnect(ctx)

		assert.Equal(t, "tasks_app_test", db.Name())
		assert.NoError(t, client.Ping(ctx, nil))
	})

	t.Run("index failure is reported", func(t *testing.T) {
		// точка в имени базы недопустима, createIndexes падает
		client, db, err := openDatabase(ctx, config.Config{MongoURI: uri, MongoDBName: "bad.name", MongoTimeout: 30 * time.Second})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create indexes")
		assert.Nil(t, client)
		assert.Nil(t, db)
	})
}

func TestOpenDatabase_Unreachable(t *testing.T) {
	client, _, err := openDatabase(context.Background(), config.Config{
		MongoURI:     "mongodb://127.0.0.1:1/?connectTimeoutMS=200",
		MongoDBName:  "tasks",
		MongoTimeout: 300 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect")
	assert.Nil(t, client)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = newLogger("loud")
	assert.Error(t, err)
}
