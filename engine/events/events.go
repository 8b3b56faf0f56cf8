// Package events describes the lookup events the wizard emits after each
// fetch settles, and the publishers that ship them.
package events

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/WessleyAI/vehicle-lookup/pkg/natsutil"
)

// DefaultSubjectPrefix is prepended to every event kind.
const DefaultSubjectPrefix = "vlookup"

// Kind names what happened.
type Kind string

const (
	MakesLoaded  Kind = "makes.loaded"
	MakesFailed  Kind = "makes.failed"
	ModelsLoaded Kind = "models.loaded"
	ModelsFailed Kind = "models.failed"
)

// Lookup is one settled fetch.
type Lookup struct {
	Kind     Kind          `json:"kind"`
	MakeID   int           `json:"make_id,omitempty"`
	Year     int           `json:"year,omitempty"`
	Count    int           `json:"count"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
	At       time.Time     `json:"at"`
}

// Publisher ships lookup events somewhere.
type Publisher interface {
	Publish(ctx context.Context, ev Lookup) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Lookup) error { return nil }

// NATSPublisher publishes events as JSON on <prefix>.<kind>.
type NATSPublisher struct {
	conn   natsutil.MsgPublisher
	prefix string
}

// NewNATSPublisher wraps a NATS connection. An empty prefix uses
// DefaultSubjectPrefix.
func NewNATSPublisher(conn natsutil.MsgPublisher, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: conn, prefix: prefix}
}

// Subject returns the subject an event of kind k is published on.
func (p *NATSPublisher) Subject(k Kind) string { return p.prefix + "." + string(k) }

func (p *NATSPublisher) Publish(ctx context.Context, ev Lookup) error {
	return natsutil.Publish(ctx, p.conn, p.Subject(ev.Kind), ev)
}

// Subscriber is the part of *nats.Conn that Tail needs.
type Subscriber interface {
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Tail subscribes to every lookup event under prefix and hands each decoded
// event to fn together with a context carrying the publisher's trace.
// Malformed messages are dropped.
func Tail(sub Subscriber, prefix string, fn func(context.Context, Lookup)) (*nats.Subscription, error) {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return sub.Subscribe(prefix+".>", func(msg *nats.Msg) {
		ev, ok := Decode(msg)
		if !ok {
			return
		}
		fn(natsutil.Extract(context.Background(), msg), ev)
	})
}
