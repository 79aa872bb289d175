package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/ecopoints/ecopoints/internal/ledger/domain"
)

func (s *Server) GetBalance(c *gin.Context) {
	userID, err := parseIDQuery(c, "user_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	balance, err := s.ledgerSvc.Balance(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"user_id": userID,
		"balance": balance,
	}})
}

func (s *Server) ListTransactions(c *gin.Context) {
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

	resp, err := s.ledgerSvc.History(c.Request.Context(), ledgerdomain.HistoryRequest{
		UserID: userID,
		Limit:  query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
