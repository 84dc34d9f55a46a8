package ws

import (
	"bytes"
	"encoding/json"
	"fmt"

	"quizroom/internal/model"
	"quizroom/internal/service"
)

// DecodeInbound parses a client frame into its typed command. The ref is returned
// whenever the envelope itself parsed, so errors can still be correlated.
func DecodeInbound(data []byte) (string, model.Inbound, error) {
	var env model.Envelope
	if err := strictUnmarshal(data, &env); err != nil {
		return "", nil, fmt.Errorf("malformed frame: %w", err)
	}

	in, ok := model.NewInbound(env.Type)
	if !ok {
		return env.Ref, nil, service.ErrUnknownMessage
	}

	payload := bytes.TrimSpace(env.Payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return env.Ref, in, nil
	}
	if err := strictUnmarshal(payload, in); err != nil {
		return env.Ref, nil, fmt.Errorf("malformed %s payload: %w", env.Type, err)
	}
	return env.Ref, in, nil
}

func strictUnmarshal(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
