package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://quiz.example/?room=K7P2", JoinURL("https://quiz.example/", "K7P2"))
	assert.Equal(t, "http://localhost:8080/?room=AB23", JoinURL("http://localhost:8080", "AB23"))
}

func TestQRService_PNG(t *testing.T) {
	png, err := NewQRService(128).PNG(JoinURL("https://quiz.example", "K7P2"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	url := PNGDataURL(png)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}

func TestAuthorizeQR(t *testing.T) {
	f := newFixture()
	code, err := f.machine.CreateRoom("host")
	require.NoError(t, err)
	require.NoError(t, f.machine.JoinRoom("ann", code, "Ann"))

	got, err := f.machine.AuthorizeQR("host", strings.ToLower(code))
	require.NoError(t, err)
	assert.Equal(t, code, got)

	_, err = f.machine.AuthorizeQR("ann", code)
	assert.ErrorIs(t, err, ErrNotHost)
	_, err = f.machine.AuthorizeQR("host", "ZZZZ")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
