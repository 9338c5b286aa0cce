package reports_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/meshawi/Pharmacy-Management-System/internal/db"
	"github.com/meshawi/Pharmacy-Management-System/internal/models"
	"github.com/meshawi/Pharmacy-Management-System/internal/orders"
	"github.com/meshawi/Pharmacy-Management-System/internal/reports"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func TestSalesReport(t *testing.T) {
	gdb := newTestDB(t)
	engine := orders.NewEngine(gdb, 0)
	svc := reports.NewService(gdb)
	ctx := context.Background()

	p := models.Product{Name: "Paracetamol", Price: 450, StockQuantity: 10, Category: "Painkillers"}
	require.NoError(t, gdb.Create(&p).Error)

	_, err := engine.ConfirmOrder(ctx, 1, []uint{p.ID, p.ID})
	require.NoError(t, err)
	_, err = engine.ConfirmOrder(ctx, 2, []uint{p.ID})
	require.NoError(t, err)

	rows, err := svc.Sales(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1) // both orders landed today

	assert.Equal(t, int64(2), rows[0].TotalOrders)
	assert.Equal(t, int64(1350), rows[0].TotalSales)
}

func TestSalesReportEmpty(t *testing.T) {
	gdb := newTestDB(t)
	svc := reports.NewService(gdb)

	rows, err := svc.Sales(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestInventoryReport(t *testing.T) {
	gdb := newTestDB(t)
	engine := orders.NewEngine(gdb, 0)
	svc := reports.NewService(gdb)
	ctx := context.Background()

	sold := models.Product{Name: "Aspirin", Price: 400, StockQuantity: 5, Category: "Painkillers"}
	unsold := models.Product{Name: "Zinc Tablets", Price: 300, StockQuantity: 7, Category: "Supplements"}
	require.NoError(t, gdb.Create(&sold).Error)
	require.NoError(t, gdb.Create(&unsold).Error)

	_, err := engine.ConfirmOrder(ctx, 1, []uint{sold.ID, sold.ID})
	require.NoError(t, err)

	rows, err := svc.Inventory(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Sorted by name: Aspirin before Zinc Tablets.
	assert.Equal(t, sold.ID, rows[0].ProductID)
	assert.Equal(t, int64(2), rows[0].TotalSold)
	assert.Equal(t, int64(3), rows[0].StockQuantity)

	// Products never ordered still appear, with zero sold.
	assert.Equal(t, unsold.ID, rows[1].ProductID)
	assert.Equal(t, int64(0), rows[1].TotalSold)
	assert.Equal(t, int64(7), rows[1].StockQuantity)
}
