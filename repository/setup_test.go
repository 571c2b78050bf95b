package repository

import (
	"GoldShop/config"
	"GoldShop/models"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newOrder(userID uint, lines []models.CartLine) *models.Order {
	order := &models.Order{
		Reference:     uuid.NewString(),
		UserID:        userID,
		AddressID:     1,
		Address:       models.AddressDetails{Name: "Asha", Mobile: "9000000000", Pincode: "600001", City: "Chennai", State: "TN"},
		PaymentMethod: models.PaymentCOD,
		Status:        models.StatusProcessing,
		Subtotal:      decimal.Zero,
		Shipping:      decimal.Zero,
	}
	for i, line := range lines {
		order.Items = append(order.Items, models.OrderItem{
			Position:   i,
			CartLineID: line.ID,
			Name:       line.Name,
			Price:      line.Price,
			Quantity:   line.Quantity,
		})
		order.Subtotal = order.Subtotal.Add(line.LineTotal())
	}
	order.TotalAmount = order.Subtotal.Add(order.Shipping)
	return order
}

func lineIDs(lines []models.CartLine) []uint {
	ids := make([]uint, len(lines))
	for i, l := range lines {
		ids[i] = l.ID
	}
	return ids
}
