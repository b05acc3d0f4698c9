package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bryler/creature-arena/handlers"
	"github.com/bryler/creature-arena/metrics"
	"github.com/bryler/creature-arena/middleware"
)

// SetupRoutes mounts the full API surface. Reads are public; creating,
// deleting and banner uploads require a token from the registration service.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	tournamentHandler *handlers.TournamentHandler,
	bracketHandler *handlers.BracketHandler,
	webSocketHandler *handlers.WebsocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticator(jwtSecret)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	// The websocket route stays outside the metrics middleware: its response
	// recorder does not implement http.Hijacker.
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.SubscribeHandler)

	router.Group(func(r chi.Router) {
		r.Use(metrics.Middleware)

		r.Route("/tournaments", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/", tournamentHandler.CreateHandler)
				r.Get("/", tournamentHandler.ListMineHandler)
			})

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", tournamentHandler.GetByIDHandler)
				r.Get("/detail", tournamentHandler.DetailHandler)
				r.Get("/pairings", tournamentHandler.PairingsHandler)
				r.Get("/round/complete", tournamentHandler.RoundCompleteHandler)
				r.Get("/standings", tournamentHandler.StandingsHandler)
				r.Get("/standings/final", tournamentHandler.FinalStandingsHandler)

				r.Post("/results", tournamentHandler.RecordResultHandler)
				r.Post("/byes", tournamentHandler.RecordByeHandler)
				r.Post("/advance", tournamentHandler.AdvanceRoundHandler)

				r.Route("/bracket", func(r chi.Router) {
					r.Post("/", bracketHandler.InitializeHandler)
					r.Get("/", bracketHandler.GetHandler)
					r.Get("/next", bracketHandler.NextMatchHandler)
					r.Post("/results", bracketHandler.RecordResultHandler)
					r.Get("/complete", bracketHandler.CompleteHandler)
				})

				r.Group(func(r chi.Router) {
					r.Use(authenticate)
					r.Delete("/", tournamentHandler.DeleteHandler)
					r.Put("/banner", tournamentHandler.UploadBannerHandler)
				})
			})
		})
	})
}
