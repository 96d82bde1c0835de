package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/serac-labs/seracpay/utils"
)

// DownloadReceipt generates a PDF receipt for a confirmed order, looked up
// by tracking reference.
func (oc *OrderController) DownloadReceipt(c *gin.Context) {
	trackingRef := c.Query("trackingRef")
	if trackingRef == "" {
		utils.BadRequest(c, "Missing trackingRef", nil)
		return
	}

	order, ok := oc.findOrderForBrand(c, trackingRef, c.Query("brandId"))
	if !ok {
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Store info
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "Serac")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "support@serac.shop")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(60, 8, "Tracking Ref: "+order.TrackingRef)
	pdf.Cell(80, 8, "Order ID: "+order.ID)
	pdf.Ln(8)
	pdf.Cell(60, 8, "Transaction ID: "+order.TransactionID)
	pdf.Cell(80, 8, "Reference: "+order.TxRef)
	pdf.Ln(8)
	pdf.Cell(60, 8, fmt.Sprintf("Amount: %.2f %s", order.Amount, order.Currency))
	pdf.Cell(80, 8, "Status: "+order.Status)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Paid At: "+order.CreatedAt.ISOString())
	pdf.Ln(12)

	// Status timeline
	if len(order.StatusHistory) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(60, 8, "Status", "1", 0, "C", false, 0, "")
		pdf.CellFormat(80, 8, "Changed At", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 12)
		for _, change := range order.StatusHistory {
			pdf.CellFormat(60, 8, change.Status, "1", 0, "L", false, 0, "")
			pdf.CellFormat(80, 8, change.ChangedAt.ISOString(), "1", 0, "L", false, 0, "")
			pdf.Ln(-1)
		}
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for your purchase from Serac!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Receipt PDF generation failed for order %s: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to generate receipt", nil)
		return
	}
	utils.LogInfo("Receipt generated for order %s", order.ID)

	c.Header("Content-Disposition", "attachment; filename=receipt.pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
