package natsadapter

import (
	"encoding/json"
	"errors"

	nats "github.com/nats-io/nats.go"

	"github.com/tausif4802/ggp-backend/internal/tokenverify"
)

const reasonBadRequest = "invalid_payload"

type tokenQuery struct {
	Token string `json:"token"`
}

// tokenReply mirrors the POST /auth/verify payload with an ok flag and a failure reason.
type tokenReply struct {
	OK     bool           `json:"ok"`
	UserID string         `json:"user_id,omitempty"`
	Email  string         `json:"email,omitempty"`
	Role   string         `json:"role,omitempty"`
	Claims map[string]any `json:"claims,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// TokenResponder lets other portal services check access tokens without the signing secret.
type TokenResponder struct {
	verifier *tokenverify.Verifier
	reply    func(msg *nats.Msg, data []byte) error
}

func NewTokenResponder(verifier *tokenverify.Verifier) *TokenResponder {
	return &TokenResponder{verifier: verifier, reply: func(msg *nats.Msg, data []byte) error { return msg.Respond(data) }}
}

// Listen joins queue so replicas share the subject.
func (r *TokenResponder) Listen(conn *nats.Conn, subject, queue string) (*nats.Subscription, error) {
	if conn == nil {
		return nil, errors.New("nats connection is nil")
	}
	return conn.QueueSubscribe(subject, queue, r.serve)
}

func (r *TokenResponder) serve(msg *nats.Msg) {
	data, _ := json.Marshal(r.answer(msg.Data))
	_ = r.reply(msg, data)
}

func (r *TokenResponder) answer(payload []byte) tokenReply {
	var q tokenQuery
	if err := json.Unmarshal(payload, &q); err != nil || q.Token == "" {
		return tokenReply{Error: reasonBadRequest}
	}
	p, err := r.verifier.Verify(q.Token)
	if err != nil {
		return tokenReply{Error: tokenverify.Reason(err)}
	}
	return tokenReply{OK: true, UserID: p.UserID, Email: p.Email, Role: p.Role, Claims: p.Claims}
}
