package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListUnreadNotifications(c *gin.Context) {
	userID, err := parseIDQuery(c, "user_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.notificationSvc.Unread(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MarkNotificationRead(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.notificationSvc.MarkRead(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id, "is_read": true}})
}
