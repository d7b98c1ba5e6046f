package handler

import (
	"net/http"

	"github.com/msomdec/factcheck/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, analysis *service.AnalysisService, history *service.HistoryService, cookieSecure bool) {
	authHandler := NewAuthHandler(auth, cookieSecure)
	analyzeHandler := NewAnalyzeHandler(analysis)
	historyHandler := NewHistoryHandler(history)

	protected := func(fn http.HandlerFunc) http.Handler { return RequireAuth(auth, fn) }
	page := func(fn http.HandlerFunc) http.Handler { return RequireLogin(auth, fn) }

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /", OptionalAuth(auth, http.HandlerFunc(HandleHome)))

	// Pages
	mux.HandleFunc("GET /login", authHandler.HandleLoginPage)
	mux.HandleFunc("POST /login", authHandler.HandleLoginForm)
	mux.HandleFunc("GET /register", authHandler.HandleRegisterPage)
	mux.HandleFunc("POST /register", authHandler.HandleRegisterForm)
	mux.HandleFunc("POST /logout", authHandler.HandleLogoutForm)
	mux.Handle("GET /analyze", page(analyzeHandler.HandleAnalyzePage))
	mux.Handle("POST /analyze", page(analyzeHandler.HandleAnalyzeForm))
	mux.Handle("POST /analyze/stream", protected(analyzeHandler.HandleAnalyzeStream))
	mux.Handle("GET /history", page(historyHandler.HandleHistoryPage))

	// JSON API
	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authHandler.HandleLogout)
	mux.Handle("GET /api/auth/me", protected(authHandler.HandleMe))
	mux.Handle("POST /api/analyze", protected(analyzeHandler.HandleAnalyze))
	mux.Handle("GET /api/history", protected(historyHandler.HandleHistory))
}
