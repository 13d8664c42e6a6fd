package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"shop-api/internal/apperr"
)

// abortWithError traduce el tipo de error al código HTTP. Los errores fuera
// del catálogo se loguean y salen como 500 genérico sin detalle interno.
func abortWithError(c *gin.Context, err error) {
	status := apperr.StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("internal error")
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
