package service

import (
	"crypto/rand"
	"io"
	"strings"
)

const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 4
)

// CodeAllocator produces room codes that are not live in the registry.
type CodeAllocator struct {
	registry *RoomRegistry
	source   io.Reader
}

func NewCodeAllocator(registry *RoomRegistry) *CodeAllocator {
	return &CodeAllocator{registry: registry, source: rand.Reader}
}

// WithSource replaces the random byte source. Used by tests.
func (a *CodeAllocator) WithSource(r io.Reader) *CodeAllocator {
	a.source = r
	return a
}

// Allocate draws random codes until one is unused.
func (a *CodeAllocator) Allocate() (string, error) {
	if a.registry.Len() >= codeSpace() {
		return "", ErrCodeSpaceExhausted
	}

	b := make([]byte, codeLength)
	code := make([]byte, codeLength)
	for {
		if _, err := io.ReadFull(a.source, b); err != nil {
			return "", err
		}
		for i := range code {
			code[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
		}
		if !a.registry.Exists(string(code)) {
			return string(code), nil
		}
	}
}

// NormalizeCode maps user input onto the stored code form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func codeSpace() int {
	n := 1
	for i := 0; i < codeLength; i++ {
		n *= len(codeAlphabet)
	}
	return n
}
