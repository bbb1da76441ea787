package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventdesk/internal/delivery/http/controllers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	userController *controllers.UserController,
	eventController *controllers.EventController,
	subscriptionController *controllers.SubscriptionController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/register", userController.Register)
	mux.HandleFunc("POST /auth/login", userController.Login)

	// Users
	mux.HandleFunc("GET /users/me", auth(userController.GetMe))
	mux.HandleFunc("GET /users", auth(userController.List))
	mux.HandleFunc("GET /users/{id}", auth(userController.GetByID))
	mux.HandleFunc("PATCH /users/{id}", auth(userController.Update))
	mux.HandleFunc("DELETE /users/{id}", auth(userController.Delete))

	// Events
	mux.HandleFunc("POST /events", auth(eventController.Create))
	mux.HandleFunc("GET /events", eventController.List)
	mux.HandleFunc("GET /events/{id}", eventController.GetByID)
	mux.HandleFunc("PATCH /events/{id}", auth(eventController.Update))
	mux.HandleFunc("DELETE /events/{id}", auth(eventController.Delete))
	mux.HandleFunc("POST /events/{id}/image", auth(eventController.UploadImage))

	// Subscriptions
	mux.HandleFunc("POST /subscriptions", auth(subscriptionController.Create))
	mux.HandleFunc("GET /subscriptions", auth(subscriptionController.List))
	mux.HandleFunc("GET /subscriptions/{id}", auth(subscriptionController.GetByID))
	mux.HandleFunc("DELETE /subscriptions/{id}", auth(subscriptionController.Delete))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
