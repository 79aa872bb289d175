package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	userdomain "github.com/ecopoints/ecopoints/internal/user/domain"
)

type loginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Login upserts the user record keyed by email. Credential verification is
// delegated to the identity provider in front of this service; by the time a
// request lands here the email is trusted.
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.userSvc.EnsureUser(c.Request.Context(), userdomain.EnsureUserRequest{
		Email: strings.TrimSpace(req.Email),
		Name:  strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
