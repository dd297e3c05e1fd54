package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "github.com/NordCoder/Deadswitch/internal/config/switchctl"
	"github.com/NordCoder/Deadswitch/internal/obs"
	"github.com/NordCoder/Deadswitch/internal/repository/switchapi"
	"github.com/NordCoder/Deadswitch/internal/services/switches"
)

var mainVersion = "unknown"

// app is what every subcommand runs against once flags and config are resolved.
type app struct {
	cfgFile string
	cfg     *config.Config
	log     *zap.Logger
	uc      *switches.Usecase
	now     func() time.Time
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	log, err := obs.NewLogger(cfg.AsLoggerConfig())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	client, err := switchapi.New(switchapi.Config{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.Timeout,
		UserAgent: cfg.Backend.UserAgent,
		VerifyTLS: cfg.Backend.VerifyTLS,
	}, log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	a.uc = switches.New(client, nil, log, a.now)
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{now: func() time.Time { return time.Now().UTC() }}

	root := &cobra.Command{
		Use:           "switchctl",
		Short:         "Create, list, check in and delete dead man's switches",
		Version:       mainVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	disableFlagSorting(root)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "C", "", "config file (default $HOME/.switchctl.yaml)")
	pf.StringP("backend", "B", "", "backend base URL")
	pf.DurationP("timeout", "T", 0, "backend request timeout")
	pf.StringP("email", "e", "", "owner e-mail")
	pf.String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newListCmd(a),
		newGetCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newCheckinCmd(a),
		newDeleteCmd(a),
		newEventsCmd(a),
	)
	return root
}

func disableFlagSorting(cmd *cobra.Command) {
	cmd.Flags().SortFlags = false
	cmd.PersistentFlags().SortFlags = false
	cmd.InheritedFlags().SortFlags = false
}

// run executes the command tree and prints a failure the way a user should read it.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cobra.EnableCommandSorting = false
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", describeError(err))
		return 1
	}
	return 0
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
