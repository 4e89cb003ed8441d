package main

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Izaque674/SmartLOG-sub000/internal/client"
)

var (
	watchOwner      string
	watchInterval   time.Duration
	watchMaxBackoff time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the live operation of an owner",
	Long: `Polls /operacao/{ownerId} and logs the progress of the active journey. Failed
polls back off exponentially up to --max-backoff. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	addClientFlags(watchCmd)
	watchCmd.Flags().StringVar(&watchOwner, "owner", "", "owner id (default: owner of the token)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Second, "poll interval")
	watchCmd.Flags().DurationVar(&watchMaxBackoff, "max-backoff", time.Minute, "longest wait between failed polls")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	api := newClient()
	owner := watchOwner
	if owner == "" {
		me, err := api.Me(ctx)
		if err != nil {
			return err
		}
		owner = me.OwnerID
	}

	p := &client.Poller{
		Interval:   watchInterval,
		MaxBackoff: watchMaxBackoff,
		Fetch: func(ctx context.Context) error {
			op, err := api.Operation(ctx, owner)
			if err != nil {
				return err
			}
			if op.Journey == nil {
				log.WithField("owner_id", owner).Info("No active journey")
				return nil
			}
			log.WithFields(log.Fields{
				"journey_id": op.Journey.ID.Hex(),
				"couriers":   len(op.Couriers),
				"total":      op.Progress.Total,
				"completed":  op.Progress.Completed,
				"failed":     op.Progress.Failed,
				"progress":   op.Progress.Percent,
			}).Info("Operation")
			return nil
		},
	}
	if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
