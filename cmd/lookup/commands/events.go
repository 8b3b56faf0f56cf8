package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/WessleyAI/vehicle-lookup/engine/events"
)

func eventsCmd(a *app) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail lookup events published by lookup serve",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.NATSURL == "" {
				return fmt.Errorf("events: NATS_URL is not set")
			}
			nc, err := nats.Connect(a.cfg.NATSURL, nats.Name(a.cfg.OTel.ServiceName+"-tail"))
			if err != nil {
				return fmt.Errorf("nats connect: %w", err)
			}
			defer nc.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return tailEvents(ctx, nc, prefix, cmd)
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", events.DefaultSubjectPrefix, "subject prefix")
	return cmd
}

// tailEvents prints each event as one JSON line until ctx is done or the
// output can no longer be written.
func tailEvents(ctx context.Context, sub events.Subscriber, prefix string, cmd *cobra.Command) error {
	var mu sync.Mutex
	enc := json.NewEncoder(cmd.OutOrStdout())
	writeErr := make(chan error, 1)
	s, err := events.Tail(sub, prefix, func(_ context.Context, ev events.Lookup) {
		mu.Lock()
		defer mu.Unlock()
		if err := enc.Encode(ev); err != nil {
			select {
			case writeErr <- err:
			default:
			}
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	if s != nil {
		defer s.Unsubscribe()
	}
	select {
	case <-ctx.Done():
		return nil
	case err := <-writeErr:
		return fmt.Errorf("write event: %w", err)
	}
}
