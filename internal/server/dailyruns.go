package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	dailyrundomain "github.com/haulaware/driverpay/internal/dailyrun/domain"
)

type upsertDailyRunRequest struct {
	DriverID             string `json:"driver_id"`
	Date                 string `json:"date"`
	Client               string `json:"client"`
	Area                 string `json:"area"`
	SentCount            int64  `json:"sent_count"`
	PlannedCount         int64  `json:"planned_count"`
	DeliveredCount       int64  `json:"delivered_count"`
	UnitPrice            string `json:"unit_price"`
	FuelDeduction        string `json:"fuel_deduction"`
	TicketDiscount       string `json:"ticket_discount"`
	TicketReconciliation string `json:"ticket_reconciliation"`
	OtherDeduction       string `json:"other_deduction"`
	Notes                string `json:"notes"`
}

func (s *Server) UpsertDailyRun(c *gin.Context) {
	var req upsertDailyRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	record, err := s.dailyRunSvc.Upsert(c.Request.Context(), dailyrundomain.UpsertRequest{
		DriverID:             req.DriverID,
		Date:                 date,
		Client:               strings.TrimSpace(req.Client),
		Area:                 strings.TrimSpace(req.Area),
		SentCount:            req.SentCount,
		PlannedCount:         req.PlannedCount,
		DeliveredCount:       req.DeliveredCount,
		UnitPrice:            req.UnitPrice,
		FuelDeduction:        req.FuelDeduction,
		TicketDiscount:       req.TicketDiscount,
		TicketReconciliation: req.TicketReconciliation,
		OtherDeduction:       req.OtherDeduction,
		Notes:                req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": record})
}

// ImportDailyRuns ingests the semicolon-delimited daily export posted as the
// request body. Bad rows are reported per line, good rows are stored.
func (s *Server) ImportDailyRuns(c *gin.Context) {
	summary, err := s.dailyRunSvc.ImportCSV(c.Request.Context(), c.Request.Body)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (s *Server) ListDailyRuns(c *gin.Context) {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	records, err := s.dailyRunSvc.ListRange(c.Request.Context(), strings.TrimSpace(c.Query("driver_id")), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}
