package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/ecopoints/ecopoints/internal/classification"
	reportdomain "github.com/ecopoints/ecopoints/internal/report/domain"
)

type submitReportRequest struct {
	UserID    snowflake.ID `json:"user_id"`
	Location  string       `json:"location"`
	WasteType string       `json:"waste_type"`
	Amount    string       `json:"amount"`
	ImageURL  string       `json:"image_url"`

	// Classification carries the analyzer's raw verdict for the photo. It is
	// validated here at the boundary; malformed verdicts reject the report.
	Classification json.RawMessage `json:"classification"`
}

func (s *Server) SubmitReport(c *gin.Context) {
	var req submitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.reportSvc.Submit(c.Request.Context(), reportdomain.SubmitRequest{
		UserID:         req.UserID,
		Location:       strings.TrimSpace(req.Location),
		WasteType:      strings.TrimSpace(req.WasteType),
		Amount:         strings.TrimSpace(req.Amount),
		ImageURL:       strings.TrimSpace(req.ImageURL),
		Classification: classification.Parse(req.Classification),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListReports(c *gin.Context) {
	userID, err := parseIDQuery(c, "user_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var query struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.reportSvc.ListByUser(c.Request.Context(), userID, query.Limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type collectReportRequest struct {
	CollectorID snowflake.ID `json:"collector_id"`
	Points      int64        `json:"points"`
}

func (s *Server) CollectReport(c *gin.Context) {
	reportID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req collectReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.reportSvc.Collect(c.Request.Context(), reportdomain.CollectRequest{
		ReportID:    reportID,
		CollectorID: req.CollectorID,
		Points:      req.Points,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
