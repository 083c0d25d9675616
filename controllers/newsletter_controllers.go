package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cafe-fausse/services"
	"github.com/yeremiapane/cafe-fausse/utils"
)

type NewsletterController struct {
	Newsletter *services.NewsletterService
}

func NewNewsletterController(newsletter *services.NewsletterService) *NewsletterController {
	return &NewsletterController{Newsletter: newsletter}
}

// Subscribe -> POST /api/newsletter
func (nc *NewsletterController) Subscribe(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Name  string `json:"name"`
	}
	if !bindJSON(c, &req) {
		return
	}

	result, err := nc.Newsletter.Subscribe(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Subscribed!"
	if result.AlreadySubscribed {
		message = "You are already subscribed."
	}
	utils.RespondJSON(c, http.StatusOK, message, gin.H{"alreadySubscribed": result.AlreadySubscribed})
}
