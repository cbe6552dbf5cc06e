package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/nights", handler.ListNights)
	mux.HandleFunc("GET /v1/nights/{nightID}", handler.GetNightDetail)
	mux.HandleFunc("GET /v1/nights/{nightID}/standings", handler.ListNightStandings)
	mux.HandleFunc("GET /v1/leaderboard", handler.ListLeaderboard)
	mux.HandleFunc("GET /v1/players/{playerID}/stats", handler.GetPlayerStats)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("PUT /v1/nights/{nightID}/attendance", RequireAuth(verifier, http.HandlerFunc(handler.SetAttendance)))
	mux.Handle("POST /v1/nights/{nightID}/rounds/1/draw", RequireAuth(verifier, http.HandlerFunc(handler.DrawRound1)))
	mux.Handle("POST /v1/nights/{nightID}/rounds/2/draw", RequireAuth(verifier, http.HandlerFunc(handler.DrawRound2)))
	mux.Handle("POST /v1/nights/{nightID}/rounds/3/draw", RequireAuth(verifier, http.HandlerFunc(handler.DrawRound3)))
	mux.Handle("POST /v1/nights/{nightID}/rounds/team-draw", RequireAuth(verifier, http.HandlerFunc(handler.DrawTeamRound)))
	mux.Handle("DELETE /v1/nights/{nightID}/rounds/{number}", RequireAuth(verifier, http.HandlerFunc(handler.ResetRound)))
	mux.Handle("POST /v1/matches/{matchID}/result", RequireAuth(verifier, http.HandlerFunc(handler.ReportResult)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/rebuild-rankings", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRebuildRankingsJob)))
}
