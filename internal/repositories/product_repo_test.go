package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"balcao/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var (
	productColumns = []string{"id", "name", "category_id", "price", "stock", "created_at", "updated_at", "c_id", "c_name", "c_created_at"}
	priceColumns   = []string{"id", "product_id", "sales_type_id", "price", "created_at"}
)

func stringPtr(s string) *string {
	return &s
}

type ProductRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      ProductRepository
	productID uuid.UUID
	context   context.Context
	now       time.Time
}

func (suite *ProductRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewProductRepo(mock)
	suite.productID = uuid.New()
	suite.context = context.Background()
	suite.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *ProductRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestProductRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepoTestSuite))
}

func (suite *ProductRepoTestSuite) TestCreate_Success() {
	product := &models.Product{
		ID:    suite.productID,
		Name:  "Coxinha",
		Price: decimal.RequireFromString("5.00"),
		Stock: 10,
	}

	suite.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products (id, name, category_id, price, stock, created_at, updated_at)`)).
		WithArgs(product.ID, product.Name, product.CategoryID, product.Price, product.Stock).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(suite.now, suite.now))

	err := suite.repo.Create(suite.context, product)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.now, product.CreatedAt)
}

func (suite *ProductRepoTestSuite) TestGetByID_WithCategoryAndPrices() {
	categoryID := uuid.New()
	salesTypeID := uuid.New()

	suite.mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.id = $1`)).
		WithArgs(suite.productID).
		WillReturnRows(pgxmock.NewRows(productColumns).
			AddRow(suite.productID, "Coxinha", &categoryID, decimal.RequireFromString("5.00"), 10, suite.now, suite.now, &categoryID, stringPtr("Salgados"), &suite.now))
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM product_prices`)).
		WithArgs([]uuid.UUID{suite.productID}).
		WillReturnRows(pgxmock.NewRows(priceColumns).
			AddRow(uuid.New(), suite.productID, salesTypeID, decimal.RequireFromString("4.00"), suite.now))

	product, err := suite.repo.GetByID(suite.context, suite.productID)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Coxinha", product.Name)
	assert.Equal(suite.T(), 10, product.Stock)
	require.NotNil(suite.T(), product.Category)
	assert.Equal(suite.T(), "Salgados", product.Category.Name)
	require.Len(suite.T(), product.Prices, 1)
	assert.Equal(suite.T(), salesTypeID, product.Prices[0].SalesTypeID)
	assert.True(suite.T(), product.Prices[0].Price.Equal(decimal.RequireFromString("4")))
}

func (suite *ProductRepoTestSuite) TestGetByID_WithoutCategory() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.id = $1`)).
		WithArgs(suite.productID).
		WillReturnRows(pgxmock.NewRows(productColumns).
			AddRow(suite.productID, "Água", nil, decimal.RequireFromString("3.00"), 4, suite.now, suite.now, nil, nil, nil))
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM product_prices`)).
		WithArgs([]uuid.UUID{suite.productID}).
		WillReturnRows(pgxmock.NewRows(priceColumns))

	product, err := suite.repo.GetByID(suite.context, suite.productID)

	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), product.CategoryID)
	assert.Nil(suite.T(), product.Category)
	assert.Empty(suite.T(), product.Prices)
}

func (suite *ProductRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.id = $1`)).
		WithArgs(suite.productID).
		WillReturnError(pgx.ErrNoRows)

	product, err := suite.repo.GetByID(suite.context, suite.productID)

	assert.Nil(suite.T(), product)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ProductRepoTestSuite) TestList_FiltersAndOrdering() {
	filter := &models.ProductSearchFilter{Query: "pão", InStock: true}

	suite.mock.ExpectQuery(`WHERE p\.name ILIKE \$1 AND p\.stock > 0 ORDER BY p\.name ASC LIMIT \$2 OFFSET \$3`).
		WithArgs("%pão%", 50, 0).
		WillReturnRows(pgxmock.NewRows(productColumns).
			AddRow(suite.productID, "Pão de queijo", nil, decimal.RequireFromString("3.50"), 20, suite.now, suite.now, nil, nil, nil))
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM product_prices`)).
		WithArgs([]uuid.UUID{suite.productID}).
		WillReturnRows(pgxmock.NewRows(priceColumns))

	products, err := suite.repo.List(suite.context, filter)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), products, 1)
	assert.Equal(suite.T(), "Pão de queijo", products[0].Name)
}

func (suite *ProductRepoTestSuite) TestList_EmptySkipsPriceQuery() {
	suite.mock.ExpectQuery(`ORDER BY p\.name ASC LIMIT \$1 OFFSET \$2`).
		WithArgs(50, 0).
		WillReturnRows(pgxmock.NewRows(productColumns))

	products, err := suite.repo.List(suite.context, nil)

	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), products)
}

func (suite *ProductRepoTestSuite) TestUpdate_NotFound() {
	product := &models.Product{ID: suite.productID, Name: "X", Price: decimal.Zero}

	suite.mock.ExpectExec(regexp.QuoteMeta(`UPDATE products`)).
		WithArgs(product.Name, product.CategoryID, product.Price, product.Stock, product.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Update(suite.context, product)

	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ProductRepoTestSuite) TestDecrementStock_ReturnsTaken() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SET stock = GREATEST(prev.stock - $2, 0)`)).
		WithArgs(suite.productID, 5).
		WillReturnRows(pgxmock.NewRows([]string{"least"}).AddRow(3))

	taken, err := suite.repo.DecrementStock(suite.context, suite.productID, 5)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, taken)
}

func (suite *ProductRepoTestSuite) TestDecrementStock_MissingProduct() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`RETURNING LEAST(prev.stock, $2)`)).
		WithArgs(suite.productID, 1).
		WillReturnRows(pgxmock.NewRows([]string{"least"}))

	_, err := suite.repo.DecrementStock(suite.context, suite.productID, 1)

	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ProductRepoTestSuite) TestRestoreStock() {
	suite.mock.ExpectExec(regexp.QuoteMeta(`SET stock = stock + $1`)).
		WithArgs(2, suite.productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(regexp.QuoteMeta(`SET stock = stock + $1`)).
		WithArgs(2, suite.productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.NoError(suite.T(), suite.repo.RestoreStock(suite.context, suite.productID, 2))
	assert.ErrorIs(suite.T(), suite.repo.RestoreStock(suite.context, suite.productID, 2), ErrNotFound)
}

func (suite *ProductRepoTestSuite) TestSetStock() {
	suite.mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET stock = $1`)).
		WithArgs(12, suite.productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.repo.SetStock(suite.context, suite.productID, 12))
}

func (suite *ProductRepoTestSuite) TestListLowStock() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.stock <= $1`)).
		WithArgs(3).
		WillReturnRows(pgxmock.NewRows(productColumns).
			AddRow(suite.productID, "Suco", nil, decimal.RequireFromString("7.00"), 1, suite.now, suite.now, nil, nil, nil))

	products, err := suite.repo.ListLowStock(suite.context, 3)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), products, 1)
	assert.Equal(suite.T(), 1, products[0].Stock)
}
