package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	meterdomain "github.com/smallbiznis/voltara/internal/meter/domain"
)

type installMeterRequest struct {
	ConsumerID string `json:"consumer_id"`
}

func (s *Server) InstallMeter(c *gin.Context) {
	var req installMeterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.meterSvc.Install(c.Request.Context(), meterdomain.InstallMeterRequest{
		ConsumerID: strings.TrimSpace(req.ConsumerID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMeterByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.meterSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type recordReadingRequest struct {
	Reading *int64 `json:"reading"`
}

// RecordReading updates the register without billing. Billed readings go
// through POST /v1/bills/generate instead.
func (s *Server) RecordReading(c *gin.Context) {
	var req recordReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Reading == nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.meterSvc.RecordReading(c.Request.Context(), meterdomain.RecordReadingRequest{
		MeterID: strings.TrimSpace(c.Param("id")),
		Reading: *req.Reading,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type setHealthRequest struct {
	Health string `json:"health"`
}

func (s *Server) SetMeterHealth(c *gin.Context) {
	var req setHealthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.meterSvc.SetHealth(c.Request.Context(), meterdomain.SetHealthRequest{
		MeterID: strings.TrimSpace(c.Param("id")),
		Health:  strings.TrimSpace(req.Health),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
