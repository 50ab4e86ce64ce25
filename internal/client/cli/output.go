package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/workcredits/internal/api"
	"github.com/dmitrijs2005/workcredits/internal/common"
)

func validateOutputFormat(output string) error {
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable writes columns as upper-case headers followed by rows, aligned
// with tabs. No columns means no output.
func printTable(w io.Writer, columns []string, rows [][]string) error {
	if len(columns) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = strings.ToUpper(c)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func writeTransactions(w io.Writer, txs []api.Transaction) error {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		from := tx.Sender
		if tx.TransactionType == "mint" {
			from = tx.Admin
		}
		rows = append(rows, []string{
			fmt.Sprint(tx.ID),
			tx.TransactionType,
			from,
			tx.Recipient,
			amountString(tx.Amount),
			tx.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return printTable(w, []string{"id", "type", "from", "to", "amount", "time"}, rows)
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// parseAmount reads a base 10 integer of any size. Sign checks are left to
// the server so that its rejection order holds.
func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an integer", common.ErrInvalidAmount, s)
	}
	return v, nil
}
