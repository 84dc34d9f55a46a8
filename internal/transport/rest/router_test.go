package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizroom/internal/cache"
	"quizroom/internal/model"
	"quizroom/internal/service"
	"quizroom/internal/transport/ws"
)

type fakeRooms struct {
	summaries map[string]model.RoomSummary
	err       error
}

func (f *fakeRooms) Summary(_ context.Context, code string) (model.RoomSummary, error) {
	if f.err != nil {
		return model.RoomSummary{}, f.err
	}
	s, ok := f.summaries[code]
	if !ok {
		return model.RoomSummary{}, service.ErrRoomNotFound
	}
	return s, nil
}

func (f *fakeRooms) RoomCodes(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var codes []string
	for code := range f.summaries {
		codes = append(codes, code)
	}
	return codes, nil
}

type fakeLeaderboard struct {
	cache.LeaderboardCache
	entries []cache.LeaderboardEntry
	limit   int
	ranks   map[string]int64
}

func (f *fakeLeaderboard) GetRank(_ context.Context, _ string, playerID string) (int64, error) {
	if rank, ok := f.ranks[playerID]; ok {
		return rank, nil
	}
	return -1, nil
}

func (f *fakeLeaderboard) GetTop(_ context.Context, _ string, limit int) ([]cache.LeaderboardEntry, error) {
	f.limit = limit
	return f.entries, nil
}

func newTestRouter(rooms *fakeRooms, lb cache.LeaderboardCache) http.Handler {
	hub := ws.NewHub()
	return NewRouter(&Container{
		Rooms:          rooms,
		Leaderboard:    lb,
		WSHandler:      ws.NewHandler(hub, nil, ws.Options{RatePerSec: 1, Burst: 1}),
		AllowedOrigins: []string{"https://quiz.example"},
	})
}

func get(t *testing.T, h http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	rec := get(t, newTestRouter(&fakeRooms{}, nil), "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_Rooms(t *testing.T) {
	rooms := &fakeRooms{summaries: map[string]model.RoomSummary{
		"K7P2": {Code: "K7P2", State: model.RoomScoreboard, Round: 1, Total: 2, Players: []model.LobbyPlayer{{ID: "ann", Name: "Ann", Score: 100}}},
	}}
	router := newTestRouter(rooms, nil)

	rec := get(t, router, "/v1/rooms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1,"rooms":["K7P2"]}`, rec.Body.String())

	rec = get(t, router, "/v1/rooms/k7p2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary model.RoomSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, model.RoomScoreboard, summary.State)
	assert.Equal(t, 100, summary.Players[0].Score)

	rec = get(t, router, "/v1/rooms/ZZZZ", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, newTestRouter(&fakeRooms{err: service.ErrEngineStopped}, nil), "/v1/rooms", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_EmptyRoomList(t *testing.T) {
	rec := get(t, newTestRouter(&fakeRooms{}, nil), "/v1/rooms", nil)
	assert.JSONEq(t, `{"count":0,"rooms":[]}`, rec.Body.String())
}

func TestRouter_Leaderboard(t *testing.T) {
	rec := get(t, newTestRouter(&fakeRooms{}, nil), "/v1/rooms/K7P2/leaderboard", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	lb := &fakeLeaderboard{entries: []cache.LeaderboardEntry{{PlayerID: "ann", Name: "Ann", Score: 200, Rank: 1}}}
	rec = get(t, newTestRouter(&fakeRooms{}, lb), "/v1/rooms/k7p2/leaderboard?top=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, lb.limit)

	var resp struct {
		Code    string                   `json:"code"`
		Entries []cache.LeaderboardEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "K7P2", resp.Code)
	assert.Equal(t, lb.entries, resp.Entries)
}

func TestRouter_LeaderboardRank(t *testing.T) {
	lb := &fakeLeaderboard{
		entries: []cache.LeaderboardEntry{{PlayerID: "ann", Name: "Ann", Score: 200, Rank: 1}, {PlayerID: "bob", Name: "Bob", Score: 100, Rank: 2}},
		ranks:   map[string]int64{"ann": 1, "bob": 2},
	}
	router := newTestRouter(&fakeRooms{}, lb)

	rec := get(t, router, "/v1/rooms/K7P2/leaderboard?player=bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Player string `json:"player"`
		Rank   int64  `json:"rank"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bob", resp.Player)
	assert.Equal(t, int64(2), resp.Rank)

	rec = get(t, router, "/v1/rooms/K7P2/leaderboard?player=nobody", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, router, "/v1/rooms/K7P2/leaderboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var plain map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plain))
	assert.NotContains(t, plain, "player")
	assert.NotContains(t, plain, "rank")
}

func TestRouter_CORS(t *testing.T) {
	router := newTestRouter(&fakeRooms{}, nil)

	rec := get(t, router, "/health", http.Header{"Origin": []string{"https://quiz.example"}})
	assert.Equal(t, "https://quiz.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(t, router, "/health", http.Header{"Origin": []string{"https://evil.example"}})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

