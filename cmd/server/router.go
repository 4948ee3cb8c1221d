package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flashdeck/flashdeck-api/internal/api"
	apiMiddleware "github.com/flashdeck/flashdeck-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwords, app.logger)
	deckHandler := api.NewDeckHandler(app.deckService, app.logger)
	studyHandler := api.NewStudyHandler(app.studyService, app.logger)
	inviteHandler := api.NewInviteHandler(app.inviteService, app.logger)
	liveHandler := api.NewLiveHandler(app.liveService, app.logger)
	generationHandler := api.NewGenerationHandler(app.generator, app.images, app.logger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Live session player endpoints (public, nickname identity)
		r.Post("/live/join", liveHandler.JoinSession)
		r.Post("/live/{session_id}/answer", liveHandler.SubmitAnswer)
		r.Get("/live/{session_id}/status", liveHandler.SessionStatus)
		r.Get("/live/{session_id}/cards", liveHandler.SessionCards)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Deck management
			r.Post("/decks", deckHandler.CreateDeck)
			r.Get("/decks/my", deckHandler.ListMyDecks)
			r.Get("/decks/my-teachers-decks", deckHandler.ListTeacherDecks)
			r.Get("/decks/public", deckHandler.ListPublicDecks)
			r.Get("/decks/stats/today", studyHandler.TodayStats)
			r.Get("/decks/stats/week", studyHandler.WeekStats)
			r.Get("/decks/stats/history", studyHandler.SessionHistory)
			r.Get("/decks/{deck_id}", deckHandler.GetDeck)
			r.Put("/decks/{deck_id}", deckHandler.UpdateDeck)
			r.Delete("/decks/{deck_id}", deckHandler.DeleteDeck)
			r.Post("/decks/{deck_id}/clone", deckHandler.CloneDeck)

			// Study flow
			r.Get("/decks/{deck_id}/study-session", studyHandler.GetStudyQueue)
			r.Post("/decks/{deck_id}/complete-session", studyHandler.CompleteSession)
			r.Post("/decks/{deck_id}/reset", studyHandler.ResetDeck)
			r.Post("/cards/{card_id}/answer", studyHandler.SubmitAnswer)
			r.Get("/cards/{card_id}/history", studyHandler.ItemHistory)

			// Teacher invitations and dashboards
			r.Post("/teacher/invitations/create", inviteHandler.CreateInvitation)
			r.Get("/teacher/invitations/my", inviteHandler.ListMyInvitations)
			r.Delete("/teacher/invitations/{invitation_id}", inviteHandler.DeactivateInvitation)
			r.Get("/teacher/students", inviteHandler.ListStudents)
			r.Get("/teacher/students/{student_id}/progress", inviteHandler.StudentProgress)
			r.Post("/teacher/join", inviteHandler.JoinByCode)

			// Live session hosting
			r.Post("/live/create", liveHandler.CreateSession)
			r.Post("/live/{session_id}/start", liveHandler.StartSession)
			r.Post("/live/{session_id}/review", liveHandler.ReviewSession)
			r.Post("/live/{session_id}/finish", liveHandler.FinishSession)
			r.Post("/live/{session_id}/cancel", liveHandler.CancelSession)
			r.Get("/live/{session_id}/stats", liveHandler.SessionStats)
			r.Get("/live/history", liveHandler.SessionHistory)

			// Draft generation
			r.Post("/generate/preview", generationHandler.Preview)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
