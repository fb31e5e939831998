package database

import (
	"context"
	stdsql "database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/wex-clearinghouse/core/pkg/models"
)

// newTestClient creates a test database client against a disposable
// testcontainers Postgres instance (duplicated from test/database/client.go
// to avoid an import cycle between that package and this one).
func newTestClient(t *testing.T) *Client {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := stdsql.Open("pgx", connStr)
	require.NoError(t, err)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	require.NoError(t, RunMigrations(ctx, db, "test"))

	client := NewClientFromDB(db)
	t.Cleanup(func() {
		client.Close()
	})

	return client
}

func TestDatabaseClient_ConnectionPool(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	err := client.DB().PingContext(ctx)
	require.NoError(t, err)

	health, err := Health(ctx, client.DB())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.Greater(t, health.MaxOpenConns, 0)
}

func TestFullTextSearch(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	companies := NewCompanyRepository(client)
	buyerNeeds := NewBuyerNeedRepository(client)

	company := &models.Company{ID: uuid.NewString(), Name: "Acme Logistics"}
	require.NoError(t, companies.Create(ctx, company))

	need1 := &models.BuyerNeed{
		ID: uuid.NewString(), CompanyID: company.ID, CreatedBy: uuid.NewString(),
		City: "Dallas", State: "TX", Zipcode: "75201", RadiusMiles: 25,
		MinSqft: 5000, MaxSqft: 10000, UseType: models.UseTypeGeneral,
		NeededFrom: time.Now().UTC(), DurationMonths: 12,
		Requirements: "needs climate-controlled space for perishable food distribution",
	}
	require.NoError(t, buyerNeeds.Create(ctx, need1))

	need2 := &models.BuyerNeed{
		ID: uuid.NewString(), CompanyID: company.ID, CreatedBy: uuid.NewString(),
		City: "Dallas", State: "TX", Zipcode: "75201", RadiusMiles: 25,
		MinSqft: 5000, MaxSqft: 10000, UseType: models.UseTypeGeneral,
		NeededFrom: time.Now().UTC(), DurationMonths: 12,
		Requirements: "high ceiling clearance required for racking system",
	}
	require.NoError(t, buyerNeeds.Create(ctx, need2))

	rows, err := client.DB().QueryContext(ctx,
		`SELECT id FROM buyer_needs
		WHERE to_tsvector('english', requirements) @@ to_tsquery('english', $1)`,
		"perishable & food")
	require.NoError(t, err)
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	assert.Equal(t, []string{need1.ID}, ids)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Host: "localhost", Port: 5432, User: "test", Password: "test", Database: "test",
				SSLMode: "disable", MaxOpenConns: 10, MaxIdleConns: 5,
			},
			wantErr: false,
		},
		{
			name: "missing password",
			cfg: Config{
				Host: "localhost", Port: 5432, User: "test", Password: "", Database: "test",
				MaxOpenConns: 10, MaxIdleConns: 5,
			},
			wantErr: true,
		},
		{
			name: "idle conns exceed max conns",
			cfg: Config{
				Host: "localhost", Port: 5432, User: "test", Password: "test", Database: "test",
				MaxOpenConns: 5, MaxIdleConns: 10,
			},
			wantErr: true,
		},
		{
			name: "zero max open conns",
			cfg: Config{
				Host: "localhost", Port: 5432, User: "test", Password: "test", Database: "test",
				MaxOpenConns: 0, MaxIdleConns: 0,
			},
			wantErr: true,
		},
		{
			name: "negative idle conns",
			cfg: Config{
				Host: "localhost", Port: 5432, User: "test", Password: "test", Database: "test",
				MaxOpenConns: 10, MaxIdleConns: -1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
