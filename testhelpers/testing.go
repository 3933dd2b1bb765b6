package testhelpers

import (
	"context"
	"os"
	"testing"

	"balcao/internal/models"
	"balcao/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB connects to TEST_DATABASE_URL, applies migrations and empties
// every table. The test is skipped when the variable is unset.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	if err := database.Migrate(connString); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	pool, err := database.NewPool(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	db := &TestDB{Pool: pool}
	db.truncate(t)
	db.Cleanup = func() {
		db.truncate(t)
		pool.Close()
	}
	return db
}

func (db *TestDB) truncate(t *testing.T) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(),
		`TRUNCATE order_items, orders, product_prices, products, sales_types, categories CASCADE`)
	if err != nil {
		t.Fatalf("Failed to truncate test tables: %v", err)
	}
}

// SetupTestCategory creates a test category for testing
func SetupTestCategory(t *testing.T, db *TestDB, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO categories (id, name) VALUES ($1, $2)`, id, name)
	if err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}
	return id
}

// SetupTestSalesType creates a test sales type for testing
func SetupTestSalesType(t *testing.T, db *TestDB, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO sales_types (id, name) VALUES ($1, $2)`, id, name)
	if err != nil {
		t.Fatalf("Failed to create test sales type: %v", err)
	}
	return id
}

// SetupTestProduct creates a product with the given base price and stock.
func SetupTestProduct(t *testing.T, db *TestDB, categoryID *uuid.UUID, name, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		CategoryID: categoryID,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
	}
	err := db.Pool.QueryRow(context.Background(), `
		INSERT INTO products (id, name, category_id, price, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, product.ID, product.Name, product.CategoryID, product.Price, product.Stock).
		Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return product
}

// SetupTestPrice overrides a product's price for one sales type.
func SetupTestPrice(t *testing.T, db *TestDB, productID, salesTypeID uuid.UUID, price string) {
	t.Helper()

	_, err := db.Pool.Exec(context.Background(), `
		INSERT INTO product_prices (id, product_id, sales_type_id, price)
		VALUES ($1, $2, $3, $4)
	`, uuid.New(), productID, salesTypeID, decimal.RequireFromString(price))
	if err != nil {
		t.Fatalf("Failed to create test product price: %v", err)
	}
}

// StockOf reads a product's current stock.
func StockOf(t *testing.T, db *TestDB, productID uuid.UUID) int {
	t.Helper()

	var stock int
	if err := db.Pool.QueryRow(context.Background(), `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock); err != nil {
		t.Fatalf("Failed to read stock: %v", err)
	}
	return stock
}

func StringPtr(s string) *string {
	return &s
}
