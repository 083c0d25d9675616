package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "service": "cafe-fausse-api"})
}

func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Cafe Fausse API. Use /api/*."})
}
