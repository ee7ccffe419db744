//go:build integration

package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/leafkeeper/leafkeeper/internal/config"
	"github.com/leafkeeper/leafkeeper/internal/database"
	"github.com/leafkeeper/leafkeeper/internal/logging"
	"github.com/leafkeeper/leafkeeper/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestWithMariaDB exercises connect, migrate and owner-scoped CRUD against a
// real MariaDB container.
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mariadb:11",
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "leafkeeper_test",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}()

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306")
	require.NoError(t, err)

	cfg := &config.Config{
		DBType:            "mariadb",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "leafkeeper_test",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	defer database.Close(db)

	require.NoError(t, database.AutoMigrate(db))

	files := &discardFiles{}
	plants := services.NewPlantService(db, files, logging.NewDiscard())
	reminders := services.NewReminderService(db)

	plant, err := plants.Create(ctx, "owner-1", services.PlantInput{
		ScientificName: "Monstera deliciosa",
	}, testUpload())
	require.NoError(t, err)

	_, err = reminders.Create("owner-1", plant.ID, services.ReminderInput{
		Type: "watering", Title: "Water it", DueDate: "2026-04-01",
	})
	require.NoError(t, err)

	list, err := plants.List("owner-1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	other, err := plants.List("owner-2")
	require.NoError(t, err)
	assert.Empty(t, other)

	result, err := plants.Delete(ctx, "owner-1", plant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.DeletedReminders)
}
