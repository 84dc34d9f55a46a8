package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"quizroom/internal/cache"
	"quizroom/internal/transport/rest/handler"
	"quizroom/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Rooms          handler.RoomReader
	Leaderboard    cache.LeaderboardCache // nil when Redis is disabled
	WSHandler      *ws.Handler
	AllowedOrigins []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(c.Rooms, c.Leaderboard)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/ws", c.WSHandler.ServeWS).Methods("GET")

	v1.HandleFunc("/rooms", roomHandler.List).Methods("GET")
	v1.HandleFunc("/rooms/{code}", roomHandler.Get).Methods("GET")
	v1.HandleFunc("/rooms/{code}/leaderboard", roomHandler.Leaderboard).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return corsHandler(c.AllowedOrigins).Handler(r)
}

func corsHandler(allowedOrigins []string) *cors.Cors {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})
}
