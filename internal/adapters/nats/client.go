package natsadapter

import (
	"context"
	"encoding/json"
	"errors"

	nats "github.com/nats-io/nats.go"
)

// IdentityPublisher announces newly provisioned identities to other services.
type IdentityPublisher interface {
	IdentityCreated(ctx context.Context, id, email, role, source string) error
}

type identityCreated struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Source string `json:"source"`
}

type identityPublisher struct {
	subject   string
	publishFn func(subject string, data []byte) error
}

func NewIdentityPublisher(conn *nats.Conn, subject string) IdentityPublisher {
	return &identityPublisher{subject: subject, publishFn: conn.Publish}
}

func (p *identityPublisher) IdentityCreated(ctx context.Context, id, email, role, source string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.publishFn == nil {
		return errors.New("nats connection is nil")
	}
	data, err := json.Marshal(identityCreated{ID: id, Email: email, Role: role, Source: source})
	if err != nil {
		return err
	}
	return p.publishFn(p.subject, data)
}
