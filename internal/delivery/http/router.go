package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventscout/internal/delivery/http/controllers"
	"eventscout/internal/delivery/http/middleware"
	"eventscout/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Discovery and read-only event routes allow anonymous access; everything that
// writes requires a Bearer token.
func NewRouter(
	discoveryController *controllers.DiscoveryController,
	eventController *controllers.EventController,
	interactionController *controllers.InteractionController,
	ratingController *controllers.RatingController,
	authController *controllers.AuthController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(verifier)
	optionalAuth := middleware.OptionalAuth(verifier)

	// Discovery
	mux.HandleFunc("GET /discovery", optionalAuth(discoveryController.Discover))

	// Events
	mux.HandleFunc("POST /events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/mine", requireAuth(eventController.ListMyEvents))
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("PATCH /events/{eventID}", requireAuth(eventController.UpdateEvent))
	mux.HandleFunc("POST /events/{eventID}/cancel", requireAuth(eventController.CancelEvent))
	mux.HandleFunc("GET /events/{eventID}/occurrences", eventController.ListOccurrences)

	// Interactions
	mux.HandleFunc("PUT /events/{eventID}/interaction", requireAuth(interactionController.SetInteraction))
	mux.HandleFunc("DELETE /events/{eventID}/interaction", requireAuth(interactionController.ClearInteraction))
	mux.HandleFunc("GET /interactions/mine", requireAuth(interactionController.ListMyInteractions))

	// Ratings
	mux.HandleFunc("PUT /organizers/{organizerID}/rating", requireAuth(ratingController.RateOrganizer))
	mux.HandleFunc("GET /organizers/{organizerID}/rating", ratingController.GetOrganizerRating)
	mux.HandleFunc("GET /organizers/{organizerID}/ratings", ratingController.ListOrganizerRatings)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
