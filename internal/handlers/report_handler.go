package handler

import (
	"net/http"

	"business-finance-backend/internal/apierror"
	"business-finance-backend/internal/reports"
	expenseservice "business-finance-backend/internal/services/expenses"
	invoiceservice "business-finance-backend/internal/services/invoices"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ReportHandler struct {
	invoices *invoiceservice.Service
	expenses *expenseservice.Service
	logger   *logrus.Logger
}

func NewReportHandler(invoices *invoiceservice.Service, expenses *expenseservice.Service, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{invoices: invoices, expenses: expenses, logger: logger}
}

// Export streams the user's invoices and expenses as an xlsx attachment.
func (h *ReportHandler) Export(c *gin.Context) {
	uid := userID(c)

	invoices, err := h.invoices.List(uid)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	expenses, err := h.expenses.List(uid)
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	workbook, err := reports.BuildWorkbook(invoices, expenses)
	if err != nil {
		h.logger.WithError(err).Error("report workbook failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=finance-export.xlsx")
	if err := workbook.Write(c.Writer); err != nil {
		h.logger.WithError(err).Error("report write failed")
	}
}
