package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	claimdomain "github.com/haulaware/driverpay/internal/claim/domain"
)

type createClaimFromOrderRequest struct {
	OrderID     string `json:"order_id"`
	ClaimType   string `json:"claim_type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type reviewClaimRequest struct {
	Reviewer string `json:"reviewer"`
	Notes    string `json:"notes"`
}

func (s *Server) CreateClaim(c *gin.Context) {
	var req claimdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	claim, err := s.claimSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": claim})
}

func (s *Server) CreateClaimFromOrder(c *gin.Context) {
	var req createClaimFromOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	claim, err := s.claimSvc.CreateFromOrder(c.Request.Context(), req.OrderID, req.ClaimType, req.Amount, req.Description)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": claim})
}

func (s *Server) ApproveClaim(c *gin.Context) {
	var req reviewClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	claim, err := s.claimSvc.Approve(c.Request.Context(), c.Param("id"), req.Reviewer, req.Notes)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": claim})
}

func (s *Server) RejectClaim(c *gin.Context) {
	var req reviewClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	claim, err := s.claimSvc.Reject(c.Request.Context(), c.Param("id"), req.Reviewer, req.Notes)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": claim})
}

func (s *Server) ListClaims(c *gin.Context) {
	status := claimdomain.ClaimStatus(strings.TrimSpace(c.Query("status")))
	claims, err := s.claimSvc.List(c.Request.Context(), strings.TrimSpace(c.Query("driver_id")), status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": claims})
}
