package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/kendall-kelly/garment-crm/config"
	"github.com/kendall-kelly/garment-crm/controllers"
	"github.com/kendall-kelly/garment-crm/services"
	"github.com/kendall-kelly/garment-crm/session"
	"gorm.io/gorm"
)

// FixedNow is the wall clock used by suites that assert on dates
func FixedNow() time.Time {
	return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
}

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
	RequireTestEnvironment(t)
}

// Services are the in-process backends wired by WireInMemory
type Services struct {
	DB      *gorm.DB
	Orders  *services.GormOrderService
	Storage *services.MockStorage
	Summary *services.MockSummaryService
}

// WireInMemory points every service and the controller runtime at fresh
// in-process backends: sqlite in memory, mock object storage and a canned summary.
func WireInMemory(t *testing.T) *Services {
	t.Helper()

	db, err := config.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	config.SetDB(db)
	config.SetConfig(&config.Config{
		GoEnv:         "test",
		FetchAttempts: 1,
		FetchTimeout:  time.Second,
		SignedURLTTL:  time.Hour,
	})

	s := &Services{
		DB:      db,
		Orders:  services.NewGormOrderService(db),
		Storage: services.NewMockStorage(),
		Summary: services.NewMockSummaryService("Production is on track."),
	}
	services.SetOrderService(s.Orders)
	services.SetClientService(services.NewGormClientService(db))
	services.SetFactoryService(services.NewGormFactoryService(db))
	services.SetDocumentService(services.NewDocumentService(s.Storage, "order-docs", time.Hour))
	s.Summary.SetAsMockForTesting()

	controllers.SetCache(session.NewMemoryCache())
	controllers.SetClock(FixedNow)
	return s
}
