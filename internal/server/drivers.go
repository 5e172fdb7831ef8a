package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	driverdomain "github.com/haulaware/driverpay/internal/driver/domain"
)

type createDriverRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Active *bool  `json:"active"`
}

func (s *Server) CreateDriver(c *gin.Context) {
	var req createDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	now := time.Now().UTC()
	driver := &driverdomain.Driver{
		ID:        s.genID.Generate(),
		Name:      name,
		Phone:     strings.TrimSpace(req.Phone),
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.driverRepo.Insert(c.Request.Context(), s.db, driver); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": driver})
}

func (s *Server) ListDrivers(c *gin.Context) {
	drivers, err := s.driverRepo.ListActive(c.Request.Context(), s.db)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": drivers})
}
