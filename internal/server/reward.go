package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	rewarddomain "github.com/ecopoints/ecopoints/internal/reward/domain"
)

func (s *Server) ListRewards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.rewardSvc.Catalog()})
}

type redeemRequest struct {
	UserID   snowflake.ID `json:"user_id"`
	RewardID int64        `json:"reward_id"`
}

func (s *Server) Redeem(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rewardSvc.Redeem(c.Request.Context(), rewarddomain.RedeemRequest{
		UserID:   req.UserID,
		RewardID: req.RewardID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
