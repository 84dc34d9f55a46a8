package model

import "encoding/json"

// MessageType is the tag of a wire frame.
type MessageType string

// Client -> engine
const (
	MsgCreateRoom   MessageType = "create-room"
	MsgJoinRoom     MessageType = "join-room"
	MsgSetReady     MessageType = "set-ready"
	MsgStartGame    MessageType = "start-game"
	MsgNextRound    MessageType = "next-round"
	MsgSubmitAnswer MessageType = "submit-answer"
	MsgUsePower     MessageType = "use-power"
	MsgClockPing    MessageType = "clock-ping"
	MsgQRRequest    MessageType = "qr-request"
)

// Engine -> clients
const (
	MsgAck              MessageType = "ack"
	MsgLobbyUpdate      MessageType = "lobby-update"
	MsgQuestionShow     MessageType = "question-show"
	MsgQuestionResult   MessageType = "question-result"
	MsgScoreboardUpdate MessageType = "scoreboard-update"
	MsgPowerApplied     MessageType = "power-applied"
	MsgRoomClosed       MessageType = "room-closed"
	MsgClockPong        MessageType = "clock-pong"
	MsgQRResult         MessageType = "qr-result"
)

// Envelope is the wire format of every frame in both directions.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Ref     string          `json:"ref,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound is a decoded client command.
type Inbound interface {
	Type() MessageType
}

type CreateRoomPayload struct{}

type JoinRoomPayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type SetReadyPayload struct {
	Code  string `json:"code"`
	Ready bool   `json:"ready"`
}

type StartGamePayload struct {
	Code string `json:"code"`
}

type NextRoundPayload struct {
	Code string `json:"code"`
}

type SubmitAnswerPayload struct {
	Code        string `json:"code"`
	AnswerIndex int    `json:"answerIndex"`
}

type UsePowerPayload struct {
	Code     string      `json:"code"`
	TargetID string      `json:"targetId"`
	Kind     PowerUpKind `json:"kind"`
}

type ClockPingPayload struct {
	T0 int64 `json:"t0"`
}

type QRRequestPayload struct {
	Code string `json:"code"`
}

func (CreateRoomPayload) Type() MessageType   { return MsgCreateRoom }
func (JoinRoomPayload) Type() MessageType     { return MsgJoinRoom }
func (SetReadyPayload) Type() MessageType     { return MsgSetReady }
func (StartGamePayload) Type() MessageType    { return MsgStartGame }
func (NextRoundPayload) Type() MessageType    { return MsgNextRound }
func (SubmitAnswerPayload) Type() MessageType { return MsgSubmitAnswer }
func (UsePowerPayload) Type() MessageType     { return MsgUsePower }
func (ClockPingPayload) Type() MessageType    { return MsgClockPing }
func (QRRequestPayload) Type() MessageType    { return MsgQRRequest }

// NewInbound returns an empty payload value for a client tag, or false for unknown tags.
func NewInbound(t MessageType) (Inbound, bool) {
	switch t {
	case MsgCreateRoom:
		return &CreateRoomPayload{}, true
	case MsgJoinRoom:
		return &JoinRoomPayload{}, true
	case MsgSetReady:
		return &SetReadyPayload{}, true
	case MsgStartGame:
		return &StartGamePayload{}, true
	case MsgNextRound:
		return &NextRoundPayload{}, true
	case MsgSubmitAnswer:
		return &SubmitAnswerPayload{}, true
	case MsgUsePower:
		return &UsePowerPayload{}, true
	case MsgClockPing:
		return &ClockPingPayload{}, true
	case MsgQRRequest:
		return &QRRequestPayload{}, true
	}
	return nil, false
}

// --- engine -> client payloads ---

type AckPayload struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

type LobbyPlayer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
	Score int    `json:"score"`
}

type LobbyUpdatePayload struct {
	Code    string        `json:"code"`
	Players []LobbyPlayer `json:"players"`
	State   RoomState     `json:"state"`
}

type RosterEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// QuestionShowPayload never carries the correct index.
type QuestionShowPayload struct {
	ID         string        `json:"id"`
	Text       string        `json:"text"`
	Options    []string      `json:"options"`
	DurationMs int           `json:"durationMs"`
	ServerTime int64         `json:"serverTime"`
	Deadline   int64         `json:"deadline"`
	Round      int           `json:"round"`
	Total      int           `json:"total"`
	Players    []RosterEntry `json:"players"`
}

type PlayerResult struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Answer  *int   `json:"answer"`
	Correct bool   `json:"correct"`
	Score   int    `json:"score"`
}

type QuestionResultPayload struct {
	CorrectIndex int            `json:"correctIndex"`
	Results      []PlayerResult `json:"results"`
}

type ScoreboardPayload struct {
	Entries []PlayerResult `json:"entries"`
}

type PowerAppliedPayload struct {
	Kind PowerUpKind `json:"kind"`
	From string      `json:"from"`
}

type RoomClosedPayload struct {
	Code string `json:"code"`
}

type ClockPongPayload struct {
	T0 int64 `json:"t0"`
	T1 int64 `json:"t1"`
}

type QRResultPayload struct {
	OK      bool   `json:"ok"`
	DataURL string `json:"dataUrl,omitempty"`
	Error   string `json:"error,omitempty"`
}
