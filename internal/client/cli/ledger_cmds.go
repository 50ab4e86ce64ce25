package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/workcredits/internal/api"
	"github.com/dmitrijs2005/workcredits/internal/client/client"
	"github.com/spf13/cobra"
)

// optionalArg returns nil without args so the server answers for the
// caller.
func optionalArg(args []string) *string {
	if len(args) == 0 {
		return nil
	}
	return &args[0]
}

func (a *app) newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [principal]",
		Short: "Show a wallet balance, the caller's by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				bal, err := c.WalletBalance(ctx, optionalArg(args))
				if err != nil {
					return err
				}
				if a.jsonOutput() {
					return printJSON(a.out, api.BalanceResponse{Balance: bal})
				}
				_, err = fmt.Fprintln(a.out, bal.String())
				return err
			})
		},
	}
}

func (a *app) newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [principal]",
		Short: "List transactions involving a principal, the caller by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				txs, err := c.TransactionHistory(ctx, optionalArg(args))
				if err != nil {
					return err
				}
				return a.printTransactions(txs)
			})
		},
	}
}

func (a *app) newLedgerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "List every transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				txs, err := c.TransactionLedger(ctx)
				if err != nil {
					return err
				}
				return a.printTransactions(txs)
			})
		},
	}
}

func (a *app) printTransactions(txs []api.Transaction) error {
	if a.jsonOutput() {
		if txs == nil {
			txs = []api.Transaction{}
		}
		return printJSON(a.out, api.TransactionsResponse{Transactions: txs})
	}
	return writeTransactions(a.out, txs)
}

func (a *app) printTransaction(tx api.Transaction) error {
	if a.jsonOutput() {
		return printJSON(a.out, api.TransactionResponse{Transaction: tx})
	}
	return writeTransactions(a.out, []api.Transaction{tx})
}

func (a *app) newMintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mint <recipient> <amount>",
		Short: "Create new credits in a wallet (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				tx, err := c.MintCredits(ctx, args[0], amount)
				if err != nil {
					return err
				}
				return a.printTransaction(tx)
			})
		},
	}
}

func (a *app) newTransferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <recipient> <amount>",
		Short: "Send credits from the caller's wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				tx, err := c.TransferCredits(ctx, args[0], amount)
				if err != nil {
					return err
				}
				return a.printTransaction(tx)
			})
		},
	}
}

func (a *app) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show user count, transaction count and total supply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				st, err := c.Stats(ctx)
				if err != nil {
					return err
				}
				if a.jsonOutput() {
					return printJSON(a.out, st)
				}
				return printTable(a.out, []string{"users", "transactions", "supply"}, [][]string{{
					fmt.Sprint(st.RegisteredUsers), fmt.Sprint(st.Transactions), amountString(st.Supply),
				}})
			})
		},
	}
}

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Archive the transaction ledger to object storage (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				res, err := c.ExportLedger(ctx)
				if err != nil {
					return err
				}
				if a.jsonOutput() {
					return printJSON(a.out, res)
				}
				_, err = fmt.Fprintf(a.out, "exported %d transactions to %s\n", res.Transactions, res.Key)
				return err
			})
		},
	}
}
