package e2e_test

import (
	"context"
	"sync"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	pgOnce    sync.Once
	pgDSN     string
	pgErr     error
	pgCleanup func()
)

// getSharedPostgresDSN starts one PostgreSQL container for the whole run.
func getSharedPostgresDSN(t *testing.T) string {
	t.Helper()

	pgOnce.Do(func() {
		ctx := context.Background()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("heroes"),
			pgcontainer.WithUsername("testuser"),
			pgcontainer.WithPassword("testpass"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			pgErr = err
			return
		}

		pgCleanup = func() {
			_ = testcontainers.TerminateContainer(pgContainer)
		}

		pgDSN, pgErr = pgContainer.ConnectionString(ctx, "sslmode=disable")
	})

	if pgErr != nil {
		t.Fatalf("failed to start postgres container: %v", pgErr)
	}

	return pgDSN
}

func TestE2E_Heroes_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres e2e test in short mode")
	}

	dsn := getSharedPostgresDSN(t)
	t.Cleanup(func() {
		if pgCleanup != nil {
			pgCleanup()
		}
	})

	baseURL, cleanup := startServer(t, ServerConfig{
		Port:    getOpenPort(t),
		Backend: "postgres",
		DBDSN:   dsn,
	})
	defer cleanup()

	runHeroScenarios(t, baseURL)
}
