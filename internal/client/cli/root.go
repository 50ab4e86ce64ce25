package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/workcredits/internal/client/client"
	"github.com/dmitrijs2005/workcredits/internal/client/config"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// dialFunc opens a client for addr authenticating with token.
type dialFunc func(addr, token string) (client.Client, error)

func dialGRPC(addr, token string) (client.Client, error) {
	return client.NewGRPCClient(addr, token)
}

type app struct {
	cfg  *config.Config
	out  io.Writer
	dial dialFunc
}

// Execute runs ledgerctl with os.Args and returns the process exit code.
func Execute() int {
	root := newRootCmd(os.Stdout, dialGRPC)
	root.SetArgs(os.Args[1:])
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(out io.Writer, dial dialFunc) *cobra.Command {
	a := &app{cfg: &config.Config{}, out: out, dial: dial}
	a.cfg.LoadDefaults()

	var (
		configPath string
		addr       string
		token      string
		output     string
		timeout    time.Duration
	)

	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Work credits ledger client",
		Long:          "Command-line client for the work credits ledger service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadFile(a.cfg, configPath); err != nil {
				return err
			}
			a.cfg.ApplyEnv(os.Getenv)

			// flag > env > file > default
			if cmd.Flags().Changed("addr") {
				a.cfg.ServerEndpointAddr = addr
			}
			if cmd.Flags().Changed("token") {
				a.cfg.AccessToken = token
			}
			if cmd.Flags().Changed("output") {
				a.cfg.Output = output
			}
			if cmd.Flags().Changed("timeout") {
				a.cfg.Timeout = timeout
			}
			return validateOutputFormat(a.cfg.Output)
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "JSON config file")
	pf.StringVarP(&addr, "addr", "a", a.cfg.ServerEndpointAddr, "ledger server address")
	pf.StringVarP(&token, "token", "k", "", "access token")
	pf.StringVarP(&output, "output", "o", a.cfg.Output, "output format (table, json)")
	pf.DurationVar(&timeout, "timeout", a.cfg.Timeout, "deadline of a single call")

	root.AddCommand(
		a.newVersionCmd(),
		a.newPingCmd(),
		a.newTokenCmd(),
		a.newWhoamiCmd(),
		a.newRoleCmd(),
		a.newAssignRoleCmd(),
		a.newProfileCmd(),
		a.newUsersCmd(),
		a.newDetailsCmd(),
		a.newBalanceCmd(),
		a.newHistoryCmd(),
		a.newLedgerCmd(),
		a.newMintCmd(),
		a.newTransferCmd(),
		a.newStatsCmd(),
		a.newExportCmd(),
	)
	return root
}

// withClient dials the server and runs fn under the configured timeout.
func (a *app) withClient(cmd *cobra.Command, fn func(ctx context.Context, c client.Client) error) error {
	c, err := a.dial(a.cfg.ServerEndpointAddr, a.cfg.AccessToken)
	if err != nil {
		return fmt.Errorf("connect %s: %w", a.cfg.ServerEndpointAddr, err)
	}
	defer c.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}
	return fn(ctx, c)
}

func (a *app) jsonOutput() bool {
	return a.cfg.Output == "json"
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.jsonOutput() {
				return printJSON(a.out, map[string]string{"version": version, "commit": commit})
			}
			_, err := fmt.Fprintf(a.out, "ledgerctl version %s (commit: %s)\n", version, commit)
			return err
		},
	}
}

func (a *app) newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if err := c.Ping(ctx); err != nil {
					return err
				}
				if a.jsonOutput() {
					return printJSON(a.out, map[string]string{"status": "OK"})
				}
				_, err := fmt.Fprintln(a.out, "OK")
				return err
			})
		},
	}
}
