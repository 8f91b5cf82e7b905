package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portssvc "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/dto"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	now              func() time.Time
}

// RegisterReportingRoutes registers routes related to financial reports
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := &reportingHandler{reportingService: reportingService, now: time.Now}

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/summary", h.getFinancialSummary)
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/profit-and-loss", h.getProfitAndLoss)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/income-statement", h.getIncomeStatement)
		reportingGroup.GET("/integrity", h.getIntegrity)
	}
}

// period reads fromDate/toDate, defaulting to the first day of the current month through today.
func (h *reportingHandler) period(c *gin.Context) (time.Time, time.Time, bool) {
	now := h.now().UTC()
	from, err := parseDate(c.DefaultQuery("fromDate", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format(dateLayout)), false)
	if err != nil {
		badRequest(c, "Invalid fromDate. Use YYYY-MM-DD", err)
		return time.Time{}, time.Time{}, false
	}
	to, err := parseDate(c.DefaultQuery("toDate", now.Format(dateLayout)), true)
	if err != nil {
		badRequest(c, "Invalid toDate. Use YYYY-MM-DD", err)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// asOf reads asOf, defaulting to today. The whole day is included.
func (h *reportingHandler) asOf(c *gin.Context) (time.Time, bool) {
	asOf, err := parseDate(c.DefaultQuery("asOf", h.now().UTC().Format(dateLayout)), true)
	if err != nil {
		badRequest(c, "Invalid asOf. Use YYYY-MM-DD", err)
		return time.Time{}, false
	}
	return asOf, true
}

// getFinancialSummary godoc
// @Summary Financial summary
// @Description Totals income, expenses, assets and liabilities. Both dates are optional.
// @Tags reports
// @Produce json
// @Param fromDate query string false "Start date (YYYY-MM-DD)"
// @Param toDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.FinancialSummaryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportingHandler) getFinancialSummary(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	from, err := parseOptionalDate(c.Query("fromDate"), false)
	if err != nil {
		badRequest(c, "Invalid fromDate. Use YYYY-MM-DD", err)
		return
	}
	to, err := parseOptionalDate(c.Query("toDate"), true)
	if err != nil {
		badRequest(c, "Invalid toDate. Use YYYY-MM-DD", err)
		return
	}
	dateRange := domain.DateRange{From: from, To: to}

	summary, err := h.reportingService.FinancialSummary(c.Request.Context(), sellerID, dateRange)
	if err != nil {
		respondError(c, err, "generate financial summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToFinancialSummaryResponse(summary, dateRange))
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance report as of a specific date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	rows, err := h.reportingService.TrialBalance(c.Request.Context(), sellerID, asOf)
	if err != nil {
		respondError(c, err, "generate trial balance report")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(rows, asOf))
}

// getProfitAndLoss godoc
// @Summary Generate profit and loss report
// @Description Generates a profit and loss report for a specific period
// @Tags reports
// @Produce json
// @Param fromDate query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param toDate query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.ProfitAndLossResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	from, to, ok := h.period(c)
	if !ok {
		return
	}
	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), sellerID, from, to)
	if err != nil {
		respondError(c, err, "generate profit and loss report")
		return
	}
	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report, from, to))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Generates a balance sheet report as of a specific date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	report, err := h.reportingService.BalanceSheet(c.Request.Context(), sellerID, asOf)
	if err != nil {
		respondError(c, err, "generate balance sheet report")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report, asOf))
}

// getIncomeStatement godoc
// @Summary Generate income statement
// @Description Groups income and expenses by day, month or year
// @Tags reports
// @Produce json
// @Param fromDate query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param toDate query string false "End date (YYYY-MM-DD)" default(current date)
// @Param groupBy query string false "Bucket size" Enums(day, month, year) default(month)
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	from, to, ok := h.period(c)
	if !ok {
		return
	}
	groupBy := domain.PeriodGrouping(c.DefaultQuery("groupBy", string(domain.GroupByMonth)))

	statement, err := h.reportingService.IncomeStatement(c.Request.Context(), sellerID, from, to, groupBy)
	if err != nil {
		respondError(c, err, "generate income statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(statement, from, to))
}

// getIntegrity godoc
// @Summary Check ledger integrity
// @Description Lists transaction groups whose debits and credits differ
// @Tags reports
// @Produce json
// @Success 200 {object} dto.IntegrityResponse
// @Security BearerAuth
// @Router /reports/integrity [get]
func (h *reportingHandler) getIntegrity(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	groups, err := h.reportingService.UnbalancedGroups(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err, "check ledger integrity")
		return
	}
	if groups == nil {
		groups = []domain.UnbalancedGroup{}
	}
	c.JSON(http.StatusOK, dto.IntegrityResponse{Balanced: len(groups) == 0, Unbalanced: groups})
}
