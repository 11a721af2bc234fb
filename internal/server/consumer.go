package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	consumerdomain "github.com/smallbiznis/voltara/internal/consumer/domain"
	"github.com/smallbiznis/voltara/pkg/db/pagination"
)

type registerConsumerRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	PlanCode string `json:"plan_code"`
}

func (s *Server) RegisterConsumer(c *gin.Context) {
	var req registerConsumerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.consumerSvc.Register(c.Request.Context(), consumerdomain.RegisterConsumerRequest{
		Name:     strings.TrimSpace(req.Name),
		Address:  strings.TrimSpace(req.Address),
		PlanCode: strings.TrimSpace(req.PlanCode),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListConsumers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		PlanCode string `form:"plan_code"`
		Status   string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.consumerSvc.List(c.Request.Context(), consumerdomain.ListConsumerRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		PlanCode:  strings.TrimSpace(query.PlanCode),
		Status:    strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetConsumerByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.consumerSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivateConsumer(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.consumerSvc.Deactivate(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListConsumerMeters(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.meterSvc.ListByConsumer(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
