package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	plandomain "github.com/haulaware/driverpay/internal/plan/domain"
)

func (s *Server) CreatePlan(c *gin.Context) {
	var req plandomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	plan, err := s.planSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plan})
}

func (s *Server) ListPlans(c *gin.Context) {
	driverID := strings.TrimSpace(c.Query("driver_id"))
	if driverID == "" {
		AbortWithError(c, plandomain.ErrInvalidDriver)
		return
	}

	plans, err := s.planSvc.List(c.Request.Context(), driverID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plans})
}

func (s *Server) ResolvePlan(c *gin.Context) {
	onDate, err := parseDate(c.Query("on"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	plan, err := s.planSvc.Resolve(c.Request.Context(), plandomain.ResolveRequest{
		DriverID: strings.TrimSpace(c.Query("driver_id")),
		Client:   strings.TrimSpace(c.Query("client")),
		Area:     strings.TrimSpace(c.Query("area")),
		OnDate:   onDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if plan == nil {
		AbortWithError(c, plandomain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plan})
}

// parseDate reads a YYYY-MM-DD query value, defaulting to today when empty.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", value)
}
