package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajmalmsali/plate-flow-orchestrator/internal/auth"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a staff member and returns a session token plus
// the dashboards the client should route to.
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"user":       user,
		"dashboards": auth.DashboardsForRole(user.Role),
		"landing":    auth.LandingDashboard(user.Role),
	})
}

// CurrentUser returns the authenticated user with their routing info.
func (s *Server) CurrentUser(c *gin.Context) {
	user := auth.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"kitchenAccess": user.KitchenAccess(),
		"dashboards":    auth.DashboardsForRole(user.Role),
		"landing":       auth.LandingDashboard(user.Role),
	})
}
