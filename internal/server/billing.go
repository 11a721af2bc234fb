package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/smallbiznis/voltara/internal/billing/domain"
	"github.com/smallbiznis/voltara/pkg/db/pagination"
)

type generateBillRequest struct {
	MeterID string `json:"meter_id"`
	Reading *int64 `json:"reading"`
	Peak    bool   `json:"peak"`
}

func (s *Server) GenerateBill(c *gin.Context) {
	var req generateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Reading == nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.GenerateBill(c.Request.Context(), billingdomain.GenerateBillRequest{
		MeterID: strings.TrimSpace(req.MeterID),
		Reading: *req.Reading,
		Peak:    req.Peak,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type postPaymentRequest struct {
	Amount *int64 `json:"amount"`
}

func (s *Server) PostPayment(c *gin.Context) {
	billNo, err := parseBillNo(c.Param("billNo"))
	if err != nil {
		AbortWithError(c, newValidationError("bill_no", "invalid_bill_no", "invalid bill number"))
		return
	}

	var req postPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount == nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.PostPayment(c.Request.Context(), billingdomain.PostPaymentRequest{
		BillNo: billNo,
		Amount: *req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBillByNo(c *gin.Context) {
	billNo, err := parseBillNo(c.Param("billNo"))
	if err != nil {
		AbortWithError(c, newValidationError("bill_no", "invalid_bill_no", "invalid bill number"))
		return
	}

	resp, err := s.billingSvc.GetByNo(c.Request.Context(), billNo)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBills(c *gin.Context) {
	var query struct {
		pagination.Pagination
		ConsumerID string `form:"consumer_id"`
		Status     string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.List(c.Request.Context(), billingdomain.ListBillRequest{
		PageToken:  query.PageToken,
		PageSize:   query.PageSize,
		ConsumerID: strings.TrimSpace(query.ConsumerID),
		Status:     strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// RunDunning triggers the sweep on demand. The scheduler runs the same
// operation on its interval.
func (s *Server) RunDunning(c *gin.Context) {
	resp, err := s.billingSvc.ApplyDunning(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseBillNo(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}
