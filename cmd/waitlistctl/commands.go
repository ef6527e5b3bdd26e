package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/waitlist/internal/adapter/backend"
	"github.com/pscheid92/waitlist/internal/app"
	"github.com/pscheid92/waitlist/internal/domain"
	"github.com/pscheid92/waitlist/internal/platform/config"
	"github.com/pscheid92/waitlist/internal/platform/correlation"
	"github.com/pscheid92/waitlist/internal/platform/logging"
	"github.com/pscheid92/waitlist/internal/platform/version"
	"github.com/spf13/cobra"
)

type service interface {
	Enqueue(ctx context.Context, name string) (app.Result, error)
	MarkUsed(ctx context.Context, name, actor string) (app.Result, error)
	Check(ctx context.Context, name string) (domain.Status, error)
	Clear(ctx context.Context, name string) (string, error)
	Rebuild(ctx context.Context) (app.RebuildResult, error)
	ListQueue(ctx context.Context) ([]domain.QueueEntry, error)
	UsedHistory(ctx context.Context) ([]domain.UsedEntry, error)
}

// opener builds the service for one CLI invocation and returns its cleanup.
type opener func(logLevel string) (service, func() error, error)

func openService(logLevel string) (service, func() error, error) {
	cfg, err := config.LoadForCLI()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	slog.SetDefault(logging.New(os.Stderr, logLevel, cfg.LogFormat))

	b, err := backend.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s backend: %w", cfg.SheetBackend, err)
	}

	svc := app.NewService(b.Connector, clockwork.NewRealClock(),
		app.WithLocation(cfg.Location()),
		app.WithDefaultActor(cfg.DefaultActor),
	)
	return svc, b.Close, nil
}

type cli struct {
	out  io.Writer
	open opener

	logLevel string
	svc      service
}

func newRootCmd(out io.Writer, open opener) *cobra.Command {
	c := &cli{out: out, open: open}

	root := &cobra.Command{
		Use:           "waitlistctl",
		Short:         "Operate the waitlist sheets from the command line",
		Long:          "waitlistctl runs the same checks and updates as the HTTP API against the backend selected by SHEET_BACKEND.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		c.needsService(&cobra.Command{
			Use:   "check NAME",
			Short: "Report whether a name is used, queued or available",
			Args:  cobra.MinimumNArgs(1),
			RunE:  c.runCheck,
		}),
		c.needsService(&cobra.Command{
			Use:   "queue NAME",
			Short: "Add a name to the queue unless it is already used or queued",
			Args:  cobra.MinimumNArgs(1),
			RunE:  c.runQueue,
		}),
		c.useCmd(),
		c.needsService(&cobra.Command{
			Use:   "clear NAME",
			Short: "Remove a name from the queue without marking it used",
			Args:  cobra.MinimumNArgs(1),
			RunE:  c.runClear,
		}),
		c.needsService(&cobra.Command{
			Use:   "rebuild",
			Short: "Sort and compact the queue",
			Args:  cobra.NoArgs,
			RunE:  c.runRebuild,
		}),
		c.listCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(c.out, version.Get().String())
			},
		},
	)

	return root
}

// needsService opens the backend around the command's RunE.
func (c *cli) needsService(cmd *cobra.Command) *cobra.Command {
	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		svc, closeFn, err := c.open(c.logLevel)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := closeFn(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close backend: %w", cerr)
			}
		}()

		c.svc = svc
		cmd.SetContext(correlation.WithID(cmd.Context(), correlation.NewID()))
		return run(cmd, args)
	}
	return cmd
}

// nameArg lets names with spaces be passed unquoted.
func nameArg(args []string) string {
	return strings.Join(args, " ")
}

func (c *cli) runCheck(cmd *cobra.Command, args []string) error {
	name := nameArg(args)
	status, err := c.svc.Check(cmd.Context(), name)
	if err != nil {
		return err
	}
	if status.Available() {
		return c.println(availableStyle.Render(fmt.Sprintf("%s is available.", name)))
	}
	return c.println(refusedStyle.Render(status.Message()))
}

func (c *cli) runQueue(cmd *cobra.Command, args []string) error {
	result, err := c.svc.Enqueue(cmd.Context(), nameArg(args))
	if err != nil {
		return err
	}
	return c.printResult(result)
}

func (c *cli) useCmd() *cobra.Command {
	var actor string
	cmd := c.needsService(&cobra.Command{
		Use:   "use NAME",
		Short: "Record a name as used and remove it from the queue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.svc.MarkUsed(cmd.Context(), nameArg(args), actor)
			if err != nil {
				return err
			}
			return c.printResult(result)
		},
	})
	cmd.Flags().StringVar(&actor, "by", "", "who used the name (defaults to DEFAULT_ACTOR)")
	return cmd
}

func (c *cli) runClear(cmd *cobra.Command, args []string) error {
	msg, err := c.svc.Clear(cmd.Context(), nameArg(args))
	if err != nil {
		return err
	}
	return c.println(msg)
}

func (c *cli) runRebuild(cmd *cobra.Command, _ []string) error {
	result, err := c.svc.Rebuild(cmd.Context())
	if err != nil {
		return err
	}
	return c.println(fmt.Sprintf("Queue rebuilt: %d rows (was %d).", result.After, result.Before))
}

func (c *cli) listCmd() *cobra.Command {
	var used bool
	cmd := c.needsService(&cobra.Command{
		Use:   "list",
		Short: "Print the queue, or the used log with --used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if used {
				entries, err := c.svc.UsedHistory(cmd.Context())
				if err != nil {
					return err
				}
				return c.println(usedTable(entries))
			}

			entries, err := c.svc.ListQueue(cmd.Context())
			if err != nil {
				return err
			}
			return c.println(queueTable(entries))
		},
	})
	cmd.Flags().BoolVar(&used, "used", false, "list the used log instead of the queue")
	return cmd
}

func (c *cli) printResult(result app.Result) error {
	if result.Refused() {
		return c.println(refusedStyle.Render(result.Message))
	}
	return c.println(availableStyle.Render(result.Message))
}

func (c *cli) println(s string) error {
	if _, err := fmt.Fprintln(c.out, s); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
