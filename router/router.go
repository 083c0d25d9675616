package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cafe-fausse/controllers"
	"github.com/yeremiapane/cafe-fausse/middlewares"
	"github.com/yeremiapane/cafe-fausse/services"
)

// Dependencies are the collaborators the HTTP layer is wired to.
type Dependencies struct {
	Booking     *services.BookingService
	Newsletter  *services.NewsletterService
	CORSOrigins []string
	// WriteLimiter throttles the POST endpoints; nil disables throttling.
	WriteLimiter middlewares.Limiter
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(deps.CORSOrigins))
	r.Use(middlewares.LoggerMiddleware())

	reservationCtrl := controllers.NewReservationController(deps.Booking)
	newsletterCtrl := controllers.NewNewsletterController(deps.Newsletter)

	r.GET("/", controllers.Root)

	api := r.Group("/api")
	{
		api.GET("/health", controllers.Health)

		api.GET("/reservations/availability", reservationCtrl.CheckAvailability)
		api.GET("/reservations/slots", reservationCtrl.GetSlots)

		writes := api.Group("/")
		if deps.WriteLimiter != nil {
			writes.Use(deps.WriteLimiter.RateLimit())
		}
		writes.POST("/reservations", reservationCtrl.CreateReservation)
		writes.POST("/newsletter", newsletterCtrl.Subscribe)
	}

	return r
}
