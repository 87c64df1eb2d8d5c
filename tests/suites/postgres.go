package suites

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/joefazee/betsolana/app/database"
)

const (
	postgresImage = "postgres:17.5-alpine3.21"
	postgresPort  = "5432/tcp"
)

// PostgresContainer is a throwaway postgres instance plus the config to reach it
type PostgresContainer struct {
	testcontainers.Container
	Config database.Config
}

// NewPostgresContainer starts postgres and waits until it answers queries
func NewPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	cfg := database.Config{
		User:     "betsolana",
		Password: "betsolana-test",
		Database: "betsolana_test",
	}

	dbURL := func(host string, port nat.Port) string {
		c := cfg
		c.Host, c.Port = host, port.Port()
		return c.URL()
	}

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{postgresPort},
		Cmd:          []string{"postgres", "-c", "fsync=off"},
		Env: map[string]string{
			"POSTGRES_DB":       cfg.Database,
			"POSTGRES_PASSWORD": cfg.Password,
			"POSTGRES_USER":     cfg.User,
		},
		WaitingFor: wait.ForSQL(postgresPort, "postgres", dbURL).
			WithStartupTimeout(30 * time.Second).
			WithQuery("SELECT 1"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	cfg.Host = host
	cfg.Port = mappedPort.Port()
	cfg.MaxOpenConns = 5
	cfg.MaxIdleConns = 2
	cfg.ConnMaxLifetime = time.Hour

	return &PostgresContainer{Container: container, Config: cfg}, nil
}

// RepositoryTestSuite runs a suite against a migrated postgres container.
// Every table except schema_migrations is emptied before each test.
type RepositoryTestSuite struct {
	suite.Suite
	Container      *PostgresContainer
	DB             *gorm.DB
	MigrationsPath string
}

func (s *RepositoryTestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("Skipping database integration tests in short mode")
	}

	if s.MigrationsPath == "" {
		s.MigrationsPath = findMigrationsPath()
	}
	if s.MigrationsPath == "" {
		s.T().Fatal("migrations directory not found")
	}

	container, err := NewPostgresContainer(context.Background())
	if err != nil {
		s.T().Fatalf("Failed to create postgres container: %v", err)
	}
	s.Container = container
	s.T().Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	if err := database.MigrateUp(s.MigrationsPath, container.Config.URL()); err != nil {
		s.T().Fatalf("Failed to run migrations: %v", err)
	}

	db, err := database.New(&container.Config)
	if err != nil {
		s.T().Fatalf("Failed to open gorm connection: %v", err)
	}
	s.DB = db.Session(&gorm.Session{Logger: logger.Default.LogMode(logger.Silent)})
}

func (s *RepositoryTestSuite) BeforeTest(_, _ string) {
	if s.DB == nil {
		return
	}

	var tables []string
	s.DB.Raw(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_type = 'BASE TABLE'
		AND table_name <> 'schema_migrations'
	`).Scan(&tables)

	if len(tables) == 0 {
		return
	}
	quoted := make([]string, len(tables))
	for i, t := range tables {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	s.DB.Exec("TRUNCATE " + strings.Join(quoted, ", ") + " RESTART IDENTITY CASCADE")
}

// CountRecords returns the number of rows in table
func (s *RepositoryTestSuite) CountRecords(table string) int64 {
	var c int64
	s.DB.Table(table).Count(&c)
	return c
}

func findMigrationsPath() string {
	wd, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			dir := filepath.Join(wd, "migrations")
			if _, err := os.Stat(dir); err == nil {
				return dir
			}
			return ""
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return ""
		}
		wd = parent
	}
}
