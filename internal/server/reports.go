package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetAgingReport(c *gin.Context) {
	resp, err := s.billingSvc.AgingReport(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRevenueReport(c *gin.Context) {
	resp, err := s.billingSvc.RevenueByPlan(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTariffs(c *gin.Context) {
	type tariffView struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}

	plans := make([]tariffView, 0)
	for _, code := range s.plans.Codes() {
		plan, err := s.plans.Resolve(code)
		if err != nil {
			continue
		}
		plans = append(plans, tariffView{Code: string(plan.Code()), Name: plan.Name()})
	}

	c.JSON(http.StatusOK, gin.H{"data": plans})
}
