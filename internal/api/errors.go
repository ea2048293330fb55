package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/journal"
)

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// fail maps service errors onto status codes. Store failures are logged
// and hidden behind a generic message.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, journal.ErrUnauthenticated):
		abortWithError(c, http.StatusUnauthorized, journal.ErrUnauthenticated.Error())
	case errors.Is(err, journal.ErrInvalidTrade):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, journal.ErrNotFound):
		abortWithError(c, http.StatusNotFound, journal.ErrNotFound.Error())
	default:
		_ = c.Error(err)
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "internal error")
	}
}
