package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"quizroom/internal/model"
)

// Engine is the single goroutine that owns the session machine. Every command,
// timer fire and async result is a unit of work posted to its inbox and run to
// completion before the next one starts.
type Engine struct {
	inbox       *Inbox
	machine     *SessionMachine
	broadcaster Broadcaster
	qr          QRGenerator
	baseURL     string
}

func NewEngine(inbox *Inbox, machine *SessionMachine, broadcaster Broadcaster, qr QRGenerator, baseURL string) *Engine {
	return &Engine{
		inbox:       inbox,
		machine:     machine,
		broadcaster: broadcaster,
		qr:          qr,
		baseURL:     baseURL,
	}
}

// Run processes the inbox until ctx is cancelled. Pending round timers are
// cancelled on the way out.
func (e *Engine) Run(ctx context.Context) {
	log.Info().Msg("session engine started")
	defer func() {
		e.inbox.Close()
		e.machine.Shutdown()
		log.Info().Msg("session engine stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-e.inbox.work:
			fn()
		}
	}
}

// Post queues fn for the engine goroutine. It returns false after shutdown.
func (e *Engine) Post(fn func()) bool {
	return e.inbox.Post(fn)
}

// Do runs fn on the engine goroutine and waits for it to finish.
func (e *Engine) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !e.inbox.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrEngineStopped
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Handle queues a decoded client command from connID.
func (e *Engine) Handle(connID, ref string, in model.Inbound) {
	if !e.Post(func() { e.dispatch(connID, ref, in) }) {
		log.Debug().Str("conn", connID).Str("type", string(in.Type())).Msg("engine stopped, command dropped")
	}
}

// Disconnect queues the teardown of connID's membership.
func (e *Engine) Disconnect(connID string) {
	e.Post(func() { e.machine.Disconnect(connID) })
}

// Summary returns the inspection view of a room.
func (e *Engine) Summary(ctx context.Context, code string) (model.RoomSummary, error) {
	var (
		summary model.RoomSummary
		err     error
	)
	if doErr := e.Do(ctx, func() { summary, err = e.machine.RoomSummary(code) }); doErr != nil {
		return model.RoomSummary{}, doErr
	}
	return summary, err
}

// RoomCodes lists the live room codes.
func (e *Engine) RoomCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := e.Do(ctx, func() { codes = e.machine.Registry().Codes() }); err != nil {
		return nil, err
	}
	return codes, nil
}

func (e *Engine) dispatch(connID, ref string, in model.Inbound) {
	m := e.machine
	switch msg := in.(type) {
	case *model.CreateRoomPayload:
		code, err := m.CreateRoom(connID)
		e.ack(connID, ref, code, err)
	case *model.JoinRoomPayload:
		err := m.JoinRoom(connID, msg.Code, msg.Name)
		e.ack(connID, ref, NormalizeCode(msg.Code), err)
	case *model.SetReadyPayload:
		m.SetReady(connID, msg.Code, msg.Ready)
	case *model.StartGamePayload:
		e.ack(connID, ref, "", m.StartGame(connID, msg.Code))
	case *model.NextRoundPayload:
		e.ack(connID, ref, "", m.NextRound(connID, msg.Code))
	case *model.SubmitAnswerPayload:
		m.SubmitAnswer(connID, msg.Code, msg.AnswerIndex)
	case *model.UsePowerPayload:
		m.UsePower(connID, msg.Code, msg.TargetID, msg.Kind)
	case *model.ClockPingPayload:
		e.broadcaster.Reply(connID, ref, model.MsgClockPong, m.ClockSync(msg.T0))
	case *model.QRRequestPayload:
		e.requestQR(connID, ref, msg.Code)
	default:
		e.ack(connID, ref, "", ErrUnknownMessage)
	}
}

func (e *Engine) ack(connID, ref, code string, err error) {
	if err != nil {
		if !isClientError(err) {
			log.Error().Err(err).Str("conn", connID).Msg("command failed")
		}
		e.broadcaster.Reply(connID, ref, model.MsgAck, model.AckPayload{OK: false, Error: err.Error()})
		return
	}
	e.broadcaster.Reply(connID, ref, model.MsgAck, model.AckPayload{OK: true, Code: code})
}

// requestQR renders the join link off the engine goroutine and posts the result back.
func (e *Engine) requestQR(connID, ref, code string) {
	canonical, err := e.machine.AuthorizeQR(connID, code)
	if err != nil {
		e.broadcaster.Reply(connID, ref, model.MsgQRResult, model.QRResultPayload{OK: false, Error: err.Error()})
		return
	}

	link := JoinURL(e.baseURL, canonical)
	go func() {
		png, err := e.qr.PNG(link)
		e.Post(func() {
			if !e.machine.IsBound(connID) {
				return
			}
			if err != nil {
				log.Warn().Err(err).Str("room", canonical).Msg("qr generation failed")
				e.broadcaster.Reply(connID, ref, model.MsgQRResult, model.QRResultPayload{OK: false, Error: "qr generation failed"})
				return
			}
			e.broadcaster.Reply(connID, ref, model.MsgQRResult, model.QRResultPayload{OK: true, DataURL: PNGDataURL(png)})
		})
	}()
}

func isClientError(err error) bool {
	for _, target := range []error{
		ErrRoomNotFound, ErrNotHost, ErrWrongState, ErrNoPlayers,
		ErrAlreadyInRoom, ErrInvalidName, ErrUnknownMessage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
