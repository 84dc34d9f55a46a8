package ws

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizroom/internal/model"
)

type handled struct {
	connID string
	ref    string
	in     model.Inbound
}

type recordingDispatcher struct {
	mu           sync.Mutex
	hub          *Hub
	handled      []handled
	disconnected []string
}

func (d *recordingDispatcher) Handle(connID, ref string, in model.Inbound) {
	d.mu.Lock()
	d.handled = append(d.handled, handled{connID: connID, ref: ref, in: in})
	d.mu.Unlock()
	if _, ok := in.(*model.CreateRoomPayload); ok {
		d.hub.Reply(connID, ref, model.MsgAck, model.AckPayload{OK: true, Code: "K7P2"})
	}
}

func (d *recordingDispatcher) Disconnect(connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disconnected = append(d.disconnected, connID)
}

func (d *recordingDispatcher) snapshot() ([]handled, []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]handled(nil), d.handled...), append([]string(nil), d.disconnected...)
}

func newTestServer(t *testing.T, opts Options) (*httptest.Server, *Hub, *recordingDispatcher) {
	t.Helper()
	hub := NewHub()
	dispatcher := &recordingDispatcher{hub: hub}
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, dispatcher, opts).ServeWS))
	t.Cleanup(srv.Close)
	return srv, hub, dispatcher
}

func dial(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	return conn
}

func TestHandler_RoundTrip(t *testing.T) {
	srv, hub, dispatcher := newTestServer(t, Options{RatePerSec: 100, Burst: 100})
	conn := dial(t, srv, nil)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"create-room","ref":"c1"}`)))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ack model.Envelope
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, model.MsgAck, ack.Type)
	assert.Equal(t, "c1", ack.Ref)
	assert.JSONEq(t, `{"ok":true,"code":"K7P2"}`, string(ack.Payload))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"bogus","ref":"b1"}`)))
	var nack model.Envelope
	require.NoError(t, conn.ReadJSON(&nack))
	assert.Equal(t, "b1", nack.Ref)
	assert.Contains(t, string(nack.Payload), `"ok":false`)

	handledCmds, _ := dispatcher.snapshot()
	require.Len(t, handledCmds, 1)
	connID := handledCmds[0].connID
	assert.NotEmpty(t, connID)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		_, disconnected := dispatcher.snapshot()
		return len(disconnected) == 1 && disconnected[0] == connID
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, hub.ConnectionCount())
}

func TestHandler_RateLimit(t *testing.T) {
	srv, _, dispatcher := newTestServer(t, Options{RatePerSec: 0.001, Burst: 2})
	conn := dial(t, srv, nil)
	defer conn.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"set-ready","payload":{"code":"K7P2","ready":true}}`)))
	}
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"create-room","ref":"late"}`)))

	time.Sleep(100 * time.Millisecond)
	handledCmds, _ := dispatcher.snapshot()
	assert.Len(t, handledCmds, 2)
}

func TestHandler_CheckOrigin(t *testing.T) {
	srv, _, _ := newTestServer(t, Options{AllowedOrigins: []string{"https://quiz.example"}, RatePerSec: 10, Burst: 10})
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn := dial(t, srv, http.Header{"Origin": []string{"https://quiz.example"}})
	conn.Close()
}

type stubWriter struct {
	buf      bytes.Buffer
	writeErr error
	closed   bool
}

func (w *stubWriter) Write(p []byte) (int, error) {
	if w.writeErr != nil {
		return 0, w.writeErr
	}
	return w.buf.Write(p)
}

func (w *stubWriter) Close() error {
	w.closed = true
	return nil
}

type stubFrameWriter struct {
	w       *stubWriter
	nextErr error
	kind    int
}

func (f *stubFrameWriter) NextWriter(messageType int) (io.WriteCloser, error) {
	f.kind = messageType
	if f.nextErr != nil {
		return nil, f.nextErr
	}
	return f.w, nil
}

func TestWriteFrame(t *testing.T) {
	ok := &stubFrameWriter{w: &stubWriter{}}
	require.NoError(t, writeFrame(ok, []byte(`{"type":"ack"}`)))
	assert.Equal(t, websocket.TextMessage, ok.kind)
	assert.Equal(t, `{"type":"ack"}`, ok.w.buf.String())
	assert.True(t, ok.w.closed)

	broken := errors.New("broken pipe")
	failing := &stubFrameWriter{w: &stubWriter{writeErr: broken}}
	assert.ErrorIs(t, writeFrame(failing, []byte("x")), broken)
	assert.False(t, failing.w.closed, "a failed write is not flushed")

	gone := &stubFrameWriter{nextErr: websocket.ErrCloseSent}
	assert.ErrorIs(t, writeFrame(gone, []byte("x")), websocket.ErrCloseSent)
}
