package services

import (
	"GoldShop/models"
	"context"
	"fmt"
	"github.com/tealeg/xlsx"
	"io"
	"strings"
)

type OrderLister interface {
	ListAll(ctx context.Context) ([]models.Order, error)
}

var exportHeaders = []string{
	"Order ID", "Reference", "User ID", "Created At", "Status", "Payment Method",
	"Items", "Subtotal", "Shipping", "Total", "Name", "Mobile", "City", "State", "Pincode",
	"Expected Delivery",
}

// ExportOrders writes every order, newest first, as an .xlsx workbook.
func ExportOrders(ctx context.Context, orders OrderLister, w io.Writer) error {
	all, err := orders.ListAll(ctx)
	if err != nil {
		return StoreError("list orders", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range all {
		items := make([]string, len(o.Items))
		for i, item := range o.Items {
			items[i] = fmt.Sprintf("%s x%d", item.Name, item.Quantity)
		}

		row := sheet.AddRow()
		row.AddCell().SetValue(int64(o.ID))
		row.AddCell().SetValue(o.Reference)
		row.AddCell().SetValue(int64(o.UserID))
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(string(o.PaymentMethod))
		row.AddCell().SetValue(strings.Join(items, ", "))
		row.AddCell().SetString(o.Subtotal.StringFixed(2))
		row.AddCell().SetString(o.Shipping.StringFixed(2))
		row.AddCell().SetString(o.TotalAmount.StringFixed(2))
		row.AddCell().SetValue(o.Address.Name)
		row.AddCell().SetValue(o.Address.Mobile)
		row.AddCell().SetValue(o.Address.City)
		row.AddCell().SetValue(o.Address.State)
		row.AddCell().SetValue(o.Address.Pincode)
		row.AddCell().SetValue(o.ExpectedDelivery)
	}

	return file.Write(w)
}
