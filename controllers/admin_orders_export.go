package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serac-labs/seracpay/utils"
	"github.com/tealeg/xlsx"
)

// ExportOrders writes all of a brand's confirmed orders to an Excel
// spreadsheet for back-office reconciliation.
func (oc *OrderController) ExportOrders(c *gin.Context) {
	brandID := c.Query("brandId")
	if brandID == "" {
		brandID = oc.DefaultBrand
	}

	orders, err := oc.Orders.ListByBrand(c.Request.Context(), brandID)
	if err != nil {
		utils.LogError("Order export failed for brand %s: %v", brandID, err)
		utils.InternalServerError(c, "Server error", nil)
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		utils.LogError("Failed to create export sheet: %v", err)
		utils.InternalServerError(c, "Server error", nil)
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().Value = fmt.Sprintf("Confirmed Orders - %s", brandID)
	sheet.AddRow() // spacing

	headerRow := sheet.AddRow()
	for _, h := range []string{"Order ID", "Transaction ID", "Tx Ref", "Tracking Ref", "Amount", "Currency", "Status", "Created At"} {
		cell := headerRow.AddCell()
		cell.Value = h
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	var total float64
	for _, order := range orders {
		row := sheet.AddRow()
		row.AddCell().Value = order.ID
		row.AddCell().Value = order.TransactionID
		row.AddCell().Value = order.TxRef
		row.AddCell().Value = order.TrackingRef
		row.AddCell().SetFloat(order.Amount)
		row.AddCell().Value = order.Currency
		row.AddCell().Value = order.Status
		row.AddCell().Value = order.CreatedAt.ISOString()
		total += order.Amount
	}

	sheet.AddRow() // spacing
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().Value = fmt.Sprintf("Total orders: %d", len(orders))
	summaryRow.AddCell().Value = fmt.Sprintf("Total amount: %.2f", total)

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		utils.LogError("Failed to write export file: %v", err)
		utils.InternalServerError(c, "Server error", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=orders_%s.xlsx", brandID))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
