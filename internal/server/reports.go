package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/haulaware/driverpay/internal/payoutreport/domain"
)

// PayoutReport serves the payout report as JSON, CSV, or XLSX depending on
// the format query parameter.
func (s *Server) PayoutReport(c *gin.Context) {
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

	rows, err := s.reportSvc.Compute(c.Request.Context(), reportdomain.Request{
		From:   from,
		To:     to,
		Client: strings.TrimSpace(c.Query("client")),
		Area:   strings.TrimSpace(c.Query("area")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("payout_%s_%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	switch strings.ToLower(strings.TrimSpace(c.Query("format"))) {
	case "", "json":
		c.JSON(http.StatusOK, gin.H{"data": rows})
	case "csv":
		var buf bytes.Buffer
		if err := s.reportSvc.WriteCSV(&buf, rows); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
	case "xlsx":
		var buf bytes.Buffer
		if err := s.reportSvc.WriteXLSX(&buf, rows); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", filename))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		AbortWithError(c, ErrInvalidRequest)
	}
}
