package app

import (
	"context"
	"net/http"

	"planner/internal/handlers"
	"planner/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// AuthService covers both the login endpoints and the bearer-token gate.
type AuthService interface {
	handlers.AuthService
	middleware.Authenticator
}

type Services struct {
	Auth   AuthService
	Tasks  handlers.TaskService
	Events handlers.EventService
	Health func(context.Context) error
}

func NewRouter(corsOrigins []string, svc Services) chi.Router {
	authHandler := handlers.NewAuthHandler(svc.Auth)
	taskHandler := handlers.NewTaskHandler(svc.Tasks)
	eventHandler := handlers.NewEventHandler(svc.Events)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/", handlers.Home)
	r.Get("/health", handlers.Health(svc.Health))
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(svc.Auth))

		r.Get("/protected", authHandler.Protected)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.GetTasks)   // GET /tasks
			r.Post("/", taskHandler.PostTask) // POST /tasks

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", taskHandler.UpdateTaskByID)         // PUT /tasks/{id}
				r.Delete("/", taskHandler.DeleteTaskByID)      // DELETE /tasks/{id}
				r.Put("/status", taskHandler.UpdateTaskStatus) // PUT /tasks/{id}/status
			})
		})

		r.Route("/calendar", func(r chi.Router) {
			r.Get("/", eventHandler.GetEvents)
			r.Post("/", eventHandler.PostEvent)
			r.Put("/{id}", eventHandler.UpdateEventByID)
			r.Delete("/{id}", eventHandler.DeleteEventByID)
		})

		r.Post("/llm/summarize", handlers.Summarize)
	})

	return r
}
