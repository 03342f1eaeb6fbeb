package health

import (
	"fmt"
	"time"

	"github.com/ddkspices/storefront/internal/config"
	repository "github.com/ddkspices/storefront/internal/repositories"
	"github.com/hellofresh/health-go/v5"
	healthPostgres "github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

// NewHealthHandler registers a storage check matching the configured driver.
// The memory driver has nothing external to probe.
func NewHealthHandler(cfg *config.Config) (*health.Health, error) {
	var checks []health.Config

	switch cfg.Storage.Driver {
	case repository.DriverRedis:
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		})
	case repository.DriverPostgres:
		checks = append(checks, health.Config{
			Name:      "database",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: healthPostgres.New(healthPostgres.Config{
				DSN: cfg.Database.GetDSN(),
			}),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "ddk-storefront",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
