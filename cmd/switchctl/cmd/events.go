package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/NordCoder/Deadswitch/internal/domain/events"
	"github.com/NordCoder/Deadswitch/internal/repository/kafka"
)

var eventColors = map[events.Type]*color.Color{
	events.SwitchCreated:   color.New(color.FgGreen),
	events.SwitchUpdated:   color.New(color.FgCyan),
	events.SwitchCheckedIn: color.New(color.FgBlue),
	events.SwitchDeleted:   color.New(color.FgRed),
}

func writeEvent(w io.Writer, ev *events.Event) {
	typ := string(ev.Type)
	if c, ok := eventColors[ev.Type]; ok {
		typ = c.Sprint(typ)
	}
	fmt.Fprintf(w, "%s  %-18s  %s", ev.At.UTC().Format(time.RFC3339), typ, ev.SwitchID)
	if ev.Name != "" {
		fmt.Fprintf(w, "  %q", ev.Name)
	}
	if ev.UserEmail != "" {
		fmt.Fprintf(w, "  %s", ev.UserEmail)
	}
	fmt.Fprintln(w)
}

func newEventsCmd(a *app) *cobra.Command {
	var fromBeginning bool
	c := &cobra.Command{
		Use:   "events",
		Short: "Tail switch activity events until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev := a.cfg.Events
			group := ev.GroupID
			if group == "" {
				group = "switchctl-" + uuid.NewString()
			}

			ctx := cmd.Context()
			consumer := kafka.BootstrapConsumer(ctx, &kafka.ConsumerConfig{
				Brokers:       ev.Brokers,
				GroupID:       group,
				Topic:         ev.Topic,
				FromBeginning: fromBeginning,
				Logger:        a.log,
			}, a.log)
			defer func() { _ = consumer.Close() }()

			out := cmd.OutOrStdout()
			err := consumer.Consume(ctx, kafka.JSONHandler(func(_ context.Context, _ []byte, e *events.Event) error {
				writeEvent(out, e)
				return nil
			}))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	disableFlagSorting(c)
	c.Flags().StringSlice("brokers", nil, "kafka brokers")
	c.Flags().String("topic", "", "events topic")
	c.Flags().String("group", "", "consumer group (default: a fresh group per run)")
	c.Flags().BoolVar(&fromBeginning, "from-beginning", false, "replay retained events before tailing")
	c.AddCommand(newEventsInitCmd(a))
	return c
}

func newEventsInitCmd(a *app) *cobra.Command {
	var (
		partitions  int
		replication int
		wait        time.Duration
	)
	c := &cobra.Command{
		Use:   "init",
		Short: "Create the events topic if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev := a.cfg.Events
			err := kafka.EnsureTopic(cmd.Context(), ev.Brokers, kafka.TopicSpec{
				Name:              ev.Topic,
				NumPartitions:     partitions,
				ReplicationFactor: replication,
				MaxWait:           wait,
			}, a.log)
			if err != nil {
				return fmt.Errorf("ensure topic %q: %w", ev.Topic, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "topic %q ready\n", ev.Topic)
			return nil
		},
	}
	disableFlagSorting(c)
	c.Flags().StringSlice("brokers", nil, "kafka brokers")
	c.Flags().String("topic", "", "events topic")
	c.Flags().IntVar(&partitions, "partitions", 1, "partitions for a new topic")
	c.Flags().IntVar(&replication, "replication", 1, "replication factor for a new topic")
	c.Flags().DurationVar(&wait, "wait", 10*time.Second, "how long to wait for the topic to appear")
	return c
}
