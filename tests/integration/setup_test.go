package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jobly-api/jobly/internal/jobs"
	"github.com/jobly-api/jobly/pkg/engine"
	"github.com/jobly-api/jobly/pkg/engine/mutation"
)

// testConfig returns config for the test database. DATABASE_URL wins over
// the JOBLY_TEST_DB_* variables.
func testConfig(t *testing.T) engine.ConnectorConfig {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		config, err := engine.ParseConnectionString(url)
		if err != nil {
			t.Fatalf("invalid DATABASE_URL: %v", err)
		}
		return config
	}
	return engine.ConnectorConfig{
		Host:     getEnv("JOBLY_TEST_DB_HOST", "localhost"),
		Port:     getEnvInt("JOBLY_TEST_DB_PORT", 5433),
		Database: getEnv("JOBLY_TEST_DB_NAME", "jobly_test"),
		User:     getEnv("JOBLY_TEST_DB_USER", "postgres"),
		Password: getEnv("JOBLY_TEST_DB_PASS", "postgres"),
		MaxConns: 5,
		MinConns: 1,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		fmt.Sscanf(value, "%d", &result)
		return result
	}
	return fallback
}

// setupTestDB creates the tables, loads sample data and returns a connected
// repository
func setupTestDB(t *testing.T) (*jobs.Repository, context.Context) {
	t.Helper()
	skipIfNoDB(t)

	ctx := context.Background()
	config := testConfig(t)

	createTables(t, ctx, config)
	insertTestData(t, ctx, config)

	eng := engine.NewEngine()
	mutation.Register(eng)
	if err := eng.Connect(ctx, config); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Wait for DB to be ready
	for i := 0; i < 10; i++ {
		if err := eng.Ping(ctx); err == nil {
			break
		}
		if i == 9 {
			t.Fatal("Database not ready after 10 retries")
		}
		time.Sleep(500 * time.Millisecond)
	}

	t.Cleanup(func() {
		eng.Close()
		dropTables(t, context.Background(), config)
	})

	return jobs.NewRepository(eng), ctx
}

func exec(t *testing.T, ctx context.Context, config engine.ConnectorConfig, sql string) {
	t.Helper()

	conn, err := pgx.Connect(ctx, config.ConnectionString())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, sql); err != nil {
		t.Fatalf("statement failed:\n%v\nSQL:\n%s", err, sql)
	}
}

func createTables(t *testing.T, ctx context.Context, config engine.ConnectorConfig) {
	t.Helper()

	dropTables(t, ctx, config)
	exec(t, ctx, config, `
		CREATE TABLE companies (
			handle VARCHAR(25) PRIMARY KEY CHECK (handle = lower(handle)),
			name TEXT UNIQUE NOT NULL,
			num_employees INTEGER CHECK (num_employees >= 0),
			description TEXT NOT NULL,
			logo_url TEXT
		);

		CREATE TABLE jobs (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			salary INTEGER CHECK (salary >= 0),
			equity NUMERIC CHECK (equity <= 1.0),
			company_handle VARCHAR(25) NOT NULL
				REFERENCES companies ON DELETE CASCADE
		);
	`)
}

func dropTables(t *testing.T, ctx context.Context, config engine.ConnectorConfig) {
	t.Helper()

	conn, err := pgx.Connect(ctx, config.ConnectionString())
	if err != nil {
		t.Logf("Warning: failed to connect for cleanup: %v", err)
		return
	}
	defer conn.Close(ctx)

	// Drop tables in reverse dependency order
	for _, table := range []string{"jobs", "companies"} {
		if _, err := conn.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			t.Logf("Warning: failed to drop table %s: %v", table, err)
		}
	}
}

// insertTestData inserts two companies and three jobs:
// j1 (salary 1, equity 0.1), j2 (salary 2, equity 0.2), j3 (salary 3, no equity)
func insertTestData(t *testing.T, ctx context.Context, config engine.ConnectorConfig) {
	t.Helper()

	exec(t, ctx, config, `
		INSERT INTO companies (handle, name, num_employees, description) VALUES
		('c1', 'C1', 1, 'Desc1'),
		('c2', 'C2', 2, 'Desc2');

		INSERT INTO jobs (title, salary, equity, company_handle) VALUES
		('J1', 1, 0.1, 'c1'),
		('J2', 2, 0.2, 'c1'),
		('J3', 3, NULL, 'c1');
	`)
}

// skipIfNoDB skips the test if the test database is unreachable
func skipIfNoDB(t *testing.T) {
	t.Helper()

	if os.Getenv("SKIP_INTEGRATION") != "" {
		t.Skip("Skipping integration test (SKIP_INTEGRATION set)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, testConfig(t).ConnectionString())
	if err != nil {
		t.Skipf("test DB not running: %v", err)
	}
	conn.Close(ctx)
}
