package wizard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/WessleyAI/vehicle-lookup/engine/domain"
	"github.com/WessleyAI/vehicle-lookup/engine/events"
	"github.com/WessleyAI/vehicle-lookup/engine/vpic"
)

// Source is where makes and models come from. *vpic.Client satisfies it.
type Source interface {
	Makes(ctx context.Context, vehicleType string) ([]domain.Make, error)
	Models(ctx context.Context, makeID, year int) ([]domain.Model, error)
}

// Loader runs the single fetch of a view and turns the outcome into the
// message the view's Update expects. Each call issues exactly one upstream
// request; retry is always the caller's explicit decision.
type Loader struct {
	src    Source
	log    *slog.Logger
	events events.Publisher
	now    func() time.Time
}

// NewLoader wires a source with its logger and event sink. Nil log or pub
// fall back to slog.Default and events.Nop.
func NewLoader(src Source, log *slog.Logger, pub events.Publisher) *Loader {
	if log == nil {
		log = slog.Default()
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &Loader{src: src, log: log, events: pub, now: time.Now}
}

// Makes fetches the car makes and returns MakesLoaded or MakesFailed
// stamped with gen.
func (l *Loader) Makes(ctx context.Context, gen uint64) Msg {
	start := l.now()
	makes, err := l.src.Makes(ctx, vpic.VehicleTypeCar)
	ev := events.Lookup{Kind: events.MakesLoaded, Count: len(makes)}
	if err != nil {
		ev = events.Lookup{Kind: events.MakesFailed, Error: err.Error()}
		l.report(ctx, "makes fetch failed", err)
	}
	l.emit(ctx, ev, start)
	if err != nil {
		return MakesFailed{Gen: gen, Err: err}
	}
	return MakesLoaded{Gen: gen, Makes: makes}
}

// Models fetches the models for a ready results view. A view that is not
// Ready gets nil: there is nothing to fetch yet.
func (l *Loader) Models(ctx context.Context, r Results, gen uint64) Msg {
	if !r.Ready() {
		return nil
	}
	start := l.now()
	models, err := l.src.Models(ctx, r.MakeID, r.Year)
	ev := events.Lookup{Kind: events.ModelsLoaded, MakeID: r.MakeID, Year: r.Year, Count: len(models)}
	if err != nil {
		ev = events.Lookup{Kind: events.ModelsFailed, MakeID: r.MakeID, Year: r.Year, Error: err.Error()}
		l.report(ctx, "models fetch failed", err, "make_id", r.MakeID, "year", r.Year)
	}
	l.emit(ctx, ev, start)
	if err != nil {
		return ModelsFailed{Gen: gen, Err: err}
	}
	return ModelsLoaded{Gen: gen, Models: models}
}

func (l *Loader) report(ctx context.Context, msg string, err error, attrs ...any) {
	// A cancelled load belongs to a view that is gone or superseded.
	if errors.Is(err, context.Canceled) {
		l.log.DebugContext(ctx, msg, append(attrs, "error", err)...)
		return
	}
	l.log.ErrorContext(ctx, msg, append(attrs, "error", err)...)
}

func (l *Loader) emit(ctx context.Context, ev events.Lookup, start time.Time) {
	if errors.Is(ctx.Err(), context.Canceled) {
		return
	}
	ev.At = l.now()
	ev.Duration = ev.At.Sub(start)
	if err := l.events.Publish(context.WithoutCancel(ctx), ev); err != nil {
		l.log.WarnContext(ctx, "publish lookup event", "kind", ev.Kind, "error", err)
	}
}
