package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/valescamoura/hkgo/pkg/hk"
)

// NewObserveCommand creates the observe command.
func NewObserveCommand() *cobra.Command {
	var (
		backend  string
		natsURL  string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "observe REPOSITORY",
		Short: "Watch repository change notifications",
		Long: `Watch change notifications for a repository until interrupted. The REST
backend polls the hkbase observer endpoint; the NATS backend subscribes to
the server's notification subjects.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			config := &hk.ObserverConfig{
				Type:         hk.ObserverType(backend),
				PollInterval: interval,
			}
			if natsURL != "" {
				config.NATS = &hk.NATSObserverConfig{URL: natsURL}
			}

			observer, err := client.Observer(args[0], config)
			if err != nil {
				return err
			}

			if err := observer.Start(context.Background()); err != nil {
				return fmt.Errorf("failed to start observer: %w", err)
			}

			fmt.Printf("Watching %q (Ctrl-C to stop)\n", args[0])

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)

			for {
				select {
				case <-interrupt:
					return observer.Stop()
				case notification, ok := <-observer.Notifications():
					if !ok {
						return nil
					}

					fmt.Printf("%s %s %s\n", notification.Action, notification.ObjectType, string(notification.Object))
				}
			}
		},
	}

	cmd.Flags().StringVar(&backend, "backend", string(hk.ObserverTypeRest), "notification backend (rest, nats)")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL for the nats backend")
	cmd.Flags().DurationVar(&interval, "interval", 0, "REST polling interval")

	return cmd
}
