// Package testutil starts throwaway MongoDB instances for integration tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BuzzLyutic/task-tracker-api/internal/database"
)

// StartMongo runs a MongoDB container and returns its connection string and
// a function that terminates it. It skips the test under -short or when
// Docker is not reachable.
func StartMongo(t *testing.T) (string, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB integration test in short mode")
	}
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Skipf("MongoDB container unavailable: %v", err)
	}

	terminate := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("Failed to terminate container: %v", err)
		}
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		terminate()
		t.Fatalf("Failed to get connection string: %v", err)
	}
	return uri, terminate
}

// SetupTestDB starts a MongoDB container and returns a database with a unique
// name and its indexes in place.
func SetupTestDB(t *testing.T) (*mongo.Database, func()) {
	t.Helper()
	ctx := context.Background()
	uri, terminate := StartMongo(t)

	client, err := database.Connect(ctx, database.Options{URI: uri, Timeout: 30 * time.Second})
	if err != nil {
		terminate()
		t.Fatalf("Failed to connect to database: %v", err)
	}

	cleanup := func() {
		_ = client.Disconnect(ctx)
		terminate()
	}

	db := client.Database("tasks_test_" + uuid.NewString()[:8])
	if err := database.EnsureIndexes(ctx, db.Collection("tasks")); err != nil {
		cleanup()
		t.Fatalf("Failed to create indexes: %v", err)
	}
	return db, cleanup
}
