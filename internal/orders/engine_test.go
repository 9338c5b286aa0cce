package orders_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/meshawi/Pharmacy-Management-System/internal/db"
	"github.com/meshawi/Pharmacy-Management-System/internal/models"
	"github.com/meshawi/Pharmacy-Management-System/internal/orders"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// One connection serialises sqlite access; postgres serialises on the
	// row lock the conditional UPDATE takes.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func seedProduct(t *testing.T, gdb *gorm.DB, name string, price, stock int64) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: price, StockQuantity: stock, Category: "General"}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

func stockOf(t *testing.T, gdb *gorm.DB, id uint) int64 {
	t.Helper()
	var p models.Product
	require.NoError(t, gdb.First(&p, id).Error)
	return p.StockQuantity
}

func TestConfirmOrder(t *testing.T) {
	gdb := newTestDB(t)
	engine := orders.NewEngine(gdb, 0)
	ctx := context.Background()

	p1 := seedProduct(t, gdb, "Paracetamol", 1000, 5)
	p2 := seedProduct(t, gdb, "Thermometer", 2500, 1)

	order, err := engine.ConfirmOrder(ctx, 42, []uint{p1.ID, p1.ID, p2.ID})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, uint(42), order.CustomerID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, int64(4500), order.TotalAmount)

	// Lines follow the snapshot order, one unit each, price captured.
	var lines []models.OrderLine
	require.NoError(t, gdb.Where("order_id = ?", order.ID).Order("id").Find(&lines).Error)
	require.Len(t, lines, 3)
	assert.Equal(t, []uint{p1.ID, p1.ID, p2.ID}, []uint{lines[0].ProductID, lines[1].ProductID, lines[2].ProductID})
	for _, l := range lines {
		assert.Equal(t, int64(1), l.Quantity)
	}
	assert.Equal(t, int64(1000), lines[0].Price)
	assert.Equal(t, int64(2500), lines[2].Price)

	// Total equals the sum of persisted line prices.
	var sum int64
	require.NoError(t, gdb.Model(&models.OrderLine{}).Where("order_id = ?", order.ID).Select("SUM(price)").Scan(&sum).Error)
	assert.Equal(t, order.TotalAmount, sum)

	assert.Equal(t, int64(3), stockOf(t, gdb, p1.ID))
	assert.Equal(t, int64(0), stockOf(t, gdb, p2.ID))
}

func TestConfirmOrderEmptyCart(t *testing.T) {
	gdb := newTestDB(t)
	engine := orders.NewEngine(gdb, 0)

	_, err := engine.ConfirmOrder(context.Background(), 42, nil)
	assert.ErrorIs(t, err, orders.ErrEmptyCart)

	var count int64
	require.NoError(t, gdb.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConfirmOrderInsufficientStock(t *testing.T) {
	gdb := newTestDB(t)
	engine := orders.NewEngine(gdb, 0)
	ctx := context.Background()

	empty := seedProduct(t, gdb, "Insulin", 3500, 0)

	_, err := engine.ConfirmOrder(ctx, 42, []uint{empty.ID})
	var stockErr *orders.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, empty.ID, stockErr.ProductID)

	var count int64
	require.NoError(t, gdb.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConfirmOrderRollsBackWholeCart(t *testing.T) {
	gdb := newTestDB(t)
	engine := orders.NewEngine(gdb, 0)
	ctx := context.Background()

	plenty := seedProduct(t, gdb, "Bandages", 1000, 10)
	short := seedProduct(t, gdb, "Epinephrine", 8000, 1)

	// The shortage hits on the third entry; nothing from the first two may
	// survive.
	_, err := engine.ConfirmOrder(ctx, 42, []uint{plenty.ID, short.ID, short.ID})
	var stockErr *orders.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, short.ID, stockErr.ProductID)

	var orderCount, lineCount int64
	require.NoError(t, gdb.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, gdb.Model(&models.OrderLine{}).Count(&lineCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, lineCount)
	assert.Equal(t, int64(10), stockOf(t, gdb, plenty.ID))
	assert.Equal(t, int64(1), stockOf(t, gdb, short.ID))

	// The failed attempt reserved nothing, so a corrected retry succeeds.
	_, err = engine.ConfirmOrder(ctx, 42, []uint{plenty.ID, short.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), stockOf(t, gdb, short.ID))
}

func TestConfirmOrderUnknownProduct(t *testing.T) {
	gdb := newTestDB(t)
	engine := orders.NewEngine(gdb, 0)

	_, err := engine.ConfirmOrder(context.Background(), 42, []uint{12345})
	var stockErr *orders.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, uint(12345), stockErr.ProductID)
}

func TestLastUnitGoesToExactlyOneOrder(t *testing.T) {
	gdb := newTestDB(t)
	engine := orders.NewEngine(gdb, 0)
	ctx := context.Background()

	last := seedProduct(t, gdb, "Rare Serum", 9900, 1)

	_, err := engine.ConfirmOrder(ctx, 1, []uint{last.ID})
	require.NoError(t, err)

	_, err = engine.ConfirmOrder(ctx, 2, []uint{last.ID})
	var stockErr *orders.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	assert.Equal(t, int64(0), stockOf(t, gdb, last.ID))
}

func TestConcurrentCommitsKeepStockConsistent(t *testing.T) {
	gdb := newTestDB(t)
	engine := orders.NewEngine(gdb, 10*time.Second)
	ctx := context.Background()

	const initialStock = 3
	const customers = 8
	p := seedProduct(t, gdb, "Contested", 500, initialStock)

	var wg sync.WaitGroup
	errs := make([]error, customers)
	for i := 0; i < customers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.ConfirmOrder(ctx, uint(i+1), []uint{p.ID})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var stockErr *orders.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
	}

	// Exactly initialStock units were sold, the rest were refused, and the
	// counter never went negative.
	assert.Equal(t, initialStock, successes)
	final := stockOf(t, gdb, p.ID)
	assert.Equal(t, int64(0), final)

	var lineCount int64
	require.NoError(t, gdb.Model(&models.OrderLine{}).Where("product_id = ?", p.ID).Count(&lineCount).Error)
	assert.Equal(t, int64(initialStock), lineCount)
}

func TestConfirmOrderTimeout(t *testing.T) {
	gdb := newTestDB(t)
	// A deadline that has effectively already passed.
	engine := orders.NewEngine(gdb, time.Nanosecond)

	p := seedProduct(t, gdb, "Slowpoke", 100, 5)

	_, err := engine.ConfirmOrder(context.Background(), 42, []uint{p.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, orders.ErrTransactionTimeout)

	// Full rollback despite the timeout.
	var count int64
	require.NoError(t, gdb.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, int64(5), stockOf(t, gdb, p.ID))
}
