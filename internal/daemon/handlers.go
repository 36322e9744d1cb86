package daemon

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/atlanticproxy/atlantic/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const defaultLogLimit = 100

type favoriteRequest struct {
	Code string `json:"code" binding:"required"`
}

func (s *Server) statusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.status.Snapshot())
}

func (s *Server) getFavorites(c *gin.Context) {
	favorites, err := s.favorites.Favorites()
	if err != nil {
		requestLogger(c).WithError(err).Errorln("Failed to read favorites")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read favorites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": orEmpty(favorites)})
}

func (s *Server) postFavorite(c *gin.Context) {

	var request favoriteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must contain a location code"})
		return
	}

	if !common.IsValidCountryCode(request.Code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location code: " + request.Code})
		return
	}

	favorites, err := s.favorites.AddFavorite(request.Code)
	if err != nil {
		requestLogger(c).WithError(err).Errorln("Failed to add favorite")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"favorites": orEmpty(favorites)})
}

func (s *Server) deleteFavorite(c *gin.Context) {

	code := c.Param("code")
	if !common.IsValidCountryCode(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location code: " + code})
		return
	}

	favorites, err := s.favorites.RemoveFavorite(code)
	if err != nil {
		requestLogger(c).WithError(err).Errorln("Failed to remove favorite")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": orEmpty(favorites)})
}

// logsHandler serves the ring buffer. level selects that level and
// everything more severe; limit keeps the newest entries.
func (s *Server) logsHandler(c *gin.Context) {

	filter := config.LogFilter{Limit: defaultLogLimit}

	if raw := c.Query("limit"); len(raw) > 0 {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		filter.Limit = limit
	}

	if raw := c.Query("level"); len(raw) > 0 {
		level, err := logrus.ParseLevel(strings.ToLower(raw))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		for _, candidate := range logrus.AllLevels {
			if candidate <= level {
				filter.Levels = append(filter.Levels, candidate)
			}
		}
	}

	entries := s.logs.GetEventsWithFilter(filter)

	c.JSON(http.StatusOK, gin.H{
		"count": len(entries),
		"logs":  entries,
	})
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
