package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"quizroom/internal/cache"
	"quizroom/internal/model"
	"quizroom/internal/service"
)

// RoomReader is the read side of the session engine.
type RoomReader interface {
	Summary(ctx context.Context, code string) (model.RoomSummary, error)
	RoomCodes(ctx context.Context) ([]string, error)
}

// RoomHandler serves read-only room inspection endpoints.
type RoomHandler struct {
	rooms       RoomReader
	leaderboard cache.LeaderboardCache
}

// NewRoomHandler creates a new room handler. A nil leaderboard disables the leaderboard endpoint.
func NewRoomHandler(rooms RoomReader, leaderboard cache.LeaderboardCache) *RoomHandler {
	return &RoomHandler{
		rooms:       rooms,
		leaderboard: leaderboard,
	}
}

// ListRoomsResponse is the response body of GET /v1/rooms
type ListRoomsResponse struct {
	Count int      `json:"count"`
	Rooms []string `json:"rooms"`
}

// List handles GET /v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	codes, err := h.rooms.RoomCodes(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if codes == nil {
		codes = []string{}
	}
	writeJSON(w, http.StatusOK, ListRoomsResponse{Count: len(codes), Rooms: codes})
}

// Get handles GET /v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := service.NormalizeCode(mux.Vars(r)["code"])

	summary, err := h.rooms.Summary(r.Context(), code)
	if errors.Is(err, service.ErrRoomNotFound) {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// LeaderboardResponse is the response body of GET /v1/rooms/{code}/leaderboard
type LeaderboardResponse struct {
	Code    string                   `json:"code"`
	Entries []cache.LeaderboardEntry `json:"entries"`
	// Player and Rank are set when the request names a player.
	Player string `json:"player,omitempty"`
	Rank   int64  `json:"rank,omitempty"`
}

// Leaderboard handles GET /v1/rooms/{code}/leaderboard?top=N&player=ID
func (h *RoomHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if h.leaderboard == nil {
		writeError(w, http.StatusServiceUnavailable, "leaderboard cache disabled")
		return
	}
	code := service.NormalizeCode(mux.Vars(r)["code"])

	top := 20
	if topStr := r.URL.Query().Get("top"); topStr != "" {
		if n, err := strconv.Atoi(topStr); err == nil && n > 0 {
			top = n
		}
	}

	entries, err := h.leaderboard.GetTop(r.Context(), code, top)
	if err != nil {
		log.Error().Err(err).Str("room", code).Msg("read leaderboard")
		writeError(w, http.StatusInternalServerError, "leaderboard unavailable")
		return
	}
	resp := LeaderboardResponse{Code: code, Entries: entries}

	if player := r.URL.Query().Get("player"); player != "" {
		rank, err := h.leaderboard.GetRank(r.Context(), code, player)
		if err != nil {
			log.Error().Err(err).Str("room", code).Str("player", player).Msg("read leaderboard rank")
			writeError(w, http.StatusInternalServerError, "leaderboard unavailable")
			return
		}
		if rank < 1 {
			writeError(w, http.StatusNotFound, "player not ranked")
			return
		}
		resp.Player, resp.Rank = player, rank
	}
	writeJSON(w, http.StatusOK, resp)
}
