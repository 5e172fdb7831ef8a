package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	settlementdomain "github.com/haulaware/driverpay/internal/settlement/domain"
)

type calculateSettlementRequest struct {
	DriverID   string `json:"driver_id"`
	PeriodType string `json:"period_type"`
	Year       int    `json:"year"`
	Index      int    `json:"index"`
	Partner    string `json:"partner"`
}

type settlementBatchRequest struct {
	PeriodType string `json:"period_type"`
	Year       int    `json:"year"`
	Index      int    `json:"index"`
}

func (r calculateSettlementRequest) toDomain() settlementdomain.CalculateRequest {
	return settlementdomain.CalculateRequest{
		DriverID:   strings.TrimSpace(r.DriverID),
		PeriodType: settlementdomain.PeriodType(strings.TrimSpace(r.PeriodType)),
		Year:       r.Year,
		Index:      r.Index,
		Partner:    strings.TrimSpace(r.Partner),
	}
}

// PreviewSettlement calculates without persisting anything.
func (s *Server) PreviewSettlement(c *gin.Context) {
	var req calculateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	settlement, err := s.settlementSvc.Calculate(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settlement})
}

func (s *Server) CalculateSettlement(c *gin.Context) {
	var req calculateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	settlement, err := s.settlementSvc.CalculateAndStore(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settlement})
}

func (s *Server) CalculateSettlementBatch(c *gin.Context) {
	var req settlementBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.settlementSvc.CalculateAll(
		c.Request.Context(),
		settlementdomain.PeriodType(strings.TrimSpace(req.PeriodType)),
		req.Year,
		req.Index,
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) ApplySettlementClaims(c *gin.Context) {
	settlement, err := s.settlementSvc.ApplyClaims(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settlement})
}

func (s *Server) GetSettlement(c *gin.Context) {
	settlement, err := s.settlementSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settlement})
}

// ExportSettlements serves the filtered settlement list as CSV.
func (s *Server) ExportSettlements(c *gin.Context) {
	var query struct {
		DriverID   string `form:"driver_id"`
		PeriodType string `form:"period_type"`
		Year       int    `form:"year"`
		Index      int    `form:"index"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	settlements, err := s.settlementSvc.List(c.Request.Context(), settlementdomain.ListRequest{
		DriverID:   strings.TrimSpace(query.DriverID),
		PeriodType: settlementdomain.PeriodType(strings.TrimSpace(query.PeriodType)),
		Year:       query.Year,
		Index:      query.Index,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := s.settlementSvc.ExportCSV(&buf, settlements); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=settlements.csv")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (s *Server) ListSettlements(c *gin.Context) {
	var query struct {
		DriverID   string `form:"driver_id"`
		PeriodType string `form:"period_type"`
		Year       int    `form:"year"`
		Index      int    `form:"index"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	settlements, err := s.settlementSvc.List(c.Request.Context(), settlementdomain.ListRequest{
		DriverID:   strings.TrimSpace(query.DriverID),
		PeriodType: settlementdomain.PeriodType(strings.TrimSpace(query.PeriodType)),
		Year:       query.Year,
		Index:      query.Index,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settlements})
}
