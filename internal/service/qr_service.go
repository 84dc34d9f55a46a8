package service

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// QRGenerator renders content as a PNG image.
type QRGenerator interface {
	PNG(content string) ([]byte, error)
}

// QRService renders join links as QR codes.
type QRService struct {
	size int
}

func NewQRService(size int) *QRService {
	if size <= 0 {
		size = 256
	}
	return &QRService{size: size}
}

func (s *QRService) PNG(content string) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, s.size)
}

// JoinURL builds the link players follow to join a room.
func JoinURL(baseURL, code string) string {
	return fmt.Sprintf("%s/?room=%s", strings.TrimRight(baseURL, "/"), url.QueryEscape(code))
}

// PNGDataURL wraps PNG bytes as a data URL.
func PNGDataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

// AuthorizeQR checks that connID hosts the room and returns its canonical code.
func (m *SessionMachine) AuthorizeQR(connID, code string) (string, error) {
	room, err := m.lookupHostRoom(connID, code)
	if err != nil {
		return "", err
	}
	return room.Code, nil
}
