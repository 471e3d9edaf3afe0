package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	v1game "github.com/deepgram/dictator/internal/api/v1/handlers/game"
	v1oauth "github.com/deepgram/dictator/internal/api/v1/handlers/oauth"
	v1websocket "github.com/deepgram/dictator/internal/api/v1/handlers/websocket"
	v1mware "github.com/deepgram/dictator/internal/api/v1/middleware"
	"github.com/deepgram/dictator/internal/connections"
	"github.com/deepgram/dictator/internal/services/dictator"
	"github.com/deepgram/dictator/internal/services/oauth"
)

func RegisterV1Routes(router *mux.Router, game *dictator.Service, manager *connections.Manager) {
	// v1 routes
	v1 := router.PathPrefix("/v1").Subrouter()

	// OAuth v1 routes (no auth required)
	v1oauthRouter := v1.PathPrefix("/oauth").Subrouter()
	v1oauthRouter.Handle("/token", v1mware.RateLimit("oauth_token")(http.HandlerFunc(v1oauth.HandleToken))).Methods("POST")

	// Protected v1 routes (require a participant token)
	v1protectedRouter := v1.NewRoute().Subrouter()
	v1protectedRouter.Use(v1mware.RequireAuth(oauth.ScopePlay))

	v1protectedRouter.Handle("/messages", v1mware.RateLimit("messages")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v1game.HandleMessage(game, w, r)
	}))).Methods("POST")
	v1protectedRouter.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		v1game.HandleResetSession(game, w, r)
	}).Methods("DELETE")
	v1protectedRouter.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		v1websocket.HandleGameWebSocket(game, manager, w, r)
	}).Methods("GET")
}
