package integration

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/anthill-platform/profile-service/internal/system/config"
	"github.com/anthill-platform/profile-service/internal/system/database/provider"
	"github.com/anthill-platform/profile-service/internal/system/log"
	"github.com/anthill-platform/profile-service/test/setup"
)

var pg *setup.TestPostgres

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION_TESTS") == "" {
		fmt.Println("Skipping integration tests; set INTEGRATION_TESTS=1 to run them.")
		os.Exit(0)
	}

	ctx := context.Background()
	os.Setenv("TEST_MODE", "true")

	conf := config.Config{
		Log: config.LogConfig{
			LogLevel: "DEBUG",
		},
	}
	config.OverrideRuntime(conf)
	_ = log.Init("DEBUG")

	var err error
	pg, err = setup.SetupTestPostgres(ctx)
	if err != nil {
		fmt.Println("Failed to start test DB:", err)
		os.Exit(1)
	}

	provider.SetTestDB(pg.DB)
	if err := setup.CreateTables(pg.DB); err != nil {
		fmt.Println("Failed to create tables:", err)
		os.Exit(1)
	}

	code := m.Run()

	_ = pg.Container.Terminate(ctx)
	os.Exit(code)
}
