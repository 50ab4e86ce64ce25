package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/workcredits/internal/api"
	"github.com/dmitrijs2005/workcredits/internal/client/client"
	"github.com/dmitrijs2005/workcredits/internal/common"
	"github.com/dmitrijs2005/workcredits/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	closed bool

	role      string
	admin     bool
	profile   *api.Profile
	balance   *big.Int
	users     []api.RegisteredUser
	txs       []api.Transaction
	details   *api.WalletDetailsResponse
	stats     *api.StatsResponse
	export    *api.ExportResponse
	err       error
	principal *string

	assigned  [2]string
	saved     string
	recipient string
	amount    *big.Int
}

func (f *fakeClient) Close() error                 { f.closed = true; return nil }
func (f *fakeClient) Ping(context.Context) error   { return f.err }
func (f *fakeClient) IsCallerAdmin(context.Context) (bool, error) {
	return f.admin, f.err
}
func (f *fakeClient) CallerRole(context.Context) (string, error) { return f.role, f.err }
func (f *fakeClient) AssignRole(_ context.Context, p, r string) error {
	f.assigned = [2]string{p, r}
	return f.err
}
func (f *fakeClient) RegisteredUsers(context.Context) ([]api.RegisteredUser, error) {
	return f.users, f.err
}
func (f *fakeClient) CallerProfile(context.Context) (*api.Profile, error) { return f.profile, f.err }
func (f *fakeClient) UserProfile(_ context.Context, p string) (*api.Profile, error) {
	f.principal = &p
	return f.profile, f.err
}
func (f *fakeClient) SaveCallerProfile(_ context.Context, name string) error {
	f.saved = name
	return f.err
}
func (f *fakeClient) TransactionHistory(_ context.Context, p *string) ([]api.Transaction, error) {
	f.principal = p
	return f.txs, f.err
}
func (f *fakeClient) TransactionLedger(context.Context) ([]api.Transaction, error) { return f.txs, f.err }
func (f *fakeClient) WalletBalance(_ context.Context, p *string) (*big.Int, error) {
	f.principal = p
	return f.balance, f.err
}
func (f *fakeClient) MintCredits(_ context.Context, r string, a *big.Int) (api.Transaction, error) {
	f.recipient, f.amount = r, a
	return api.Transaction{ID: 1, TransactionType: "mint", Admin: "root", Recipient: r, Amount: a}, f.err
}
func (f *fakeClient) TransferCredits(_ context.Context, r string, a *big.Int) (api.Transaction, error) {
	f.recipient, f.amount = r, a
	return api.Transaction{ID: 2, TransactionType: "transfer", Sender: "alice", Recipient: r, Amount: a}, f.err
}
func (f *fakeClient) WalletDetails(context.Context, string) (*api.WalletDetailsResponse, error) {
	return f.details, f.err
}
func (f *fakeClient) Stats(context.Context) (*api.StatsResponse, error)         { return f.stats, f.err }
func (f *fakeClient) ExportLedger(context.Context) (*api.ExportResponse, error) { return f.export, f.err }

// run executes ledgerctl with args against fc and returns stdout.
func run(t *testing.T, fc *fakeClient, args ...string) (string, string, string, error) {
	t.Helper()
	for _, k := range []string{"LEDGER_ADDR", "LEDGER_TOKEN", "LEDGER_PRINCIPAL", "LEDGER_SECRET", "LEDGER_OUTPUT"} {
		t.Setenv(k, "")
	}

	var (
		out         bytes.Buffer
		addr, token string
	)
	root := newRootCmd(&out, func(a, tk string) (client.Client, error) {
		addr, token = a, tk
		return fc, nil
	})
	root.SetArgs(args)
	root.SetErr(&bytes.Buffer{})
	err := root.Execute()
	return out.String(), addr, token, err
}

func TestPing(t *testing.T) {
	fc := &fakeClient{}
	out, addr, token, err := run(t, fc, "ping", "-a", "ledger:1", "-k", "tok")
	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)
	assert.Equal(t, "ledger:1", addr)
	assert.Equal(t, "tok", token)
	assert.True(t, fc.closed)
}

func TestConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_endpoint_addr":"file:1","access_token":"file-tok"}`), 0o600))

	_, addr, token, err := run(t, &fakeClient{}, "ping", "-c", path)
	require.NoError(t, err)
	assert.Equal(t, "file:1", addr)
	assert.Equal(t, "file-tok", token)

	_, addr, _, err = run(t, &fakeClient{}, "ping", "-c", path, "--addr", "flag:2")
	require.NoError(t, err)
	assert.Equal(t, "flag:2", addr)
}

func TestEnvOverridesFileButNotFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token":"file-tok"}`), 0o600))

	var out bytes.Buffer
	var token string
	root := newRootCmd(&out, func(_, tk string) (client.Client, error) {
		token = tk
		return &fakeClient{}, nil
	})
	t.Setenv("LEDGER_TOKEN", "env-tok")
	root.SetArgs([]string{"ping", "-c", path})
	require.NoError(t, root.Execute())
	assert.Equal(t, "env-tok", token)
}

func TestBadOutputFormat(t *testing.T) {
	_, _, _, err := run(t, &fakeClient{}, "ping", "-o", "yaml")
	require.ErrorContains(t, err, "unsupported output format")
}

func TestDialError(t *testing.T) {
	root := newRootCmd(&bytes.Buffer{}, func(string, string) (client.Client, error) {
		return nil, errors.New("bad target")
	})
	root.SetArgs([]string{"ping"})
	require.ErrorContains(t, root.Execute(), "bad target")
}

func TestMintAndTransfer(t *testing.T) {
	fc := &fakeClient{}
	out, _, _, err := run(t, fc, "mint", "alice", "340282366920938463463374607431768211456")
	require.NoError(t, err)
	assert.Equal(t, "alice", fc.recipient)
	assert.Equal(t, "340282366920938463463374607431768211456", fc.amount.String())
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "TYPE")
	assert.Equal(t, []string{"1", "mint", "root", "alice"}, strings.Fields(lines[1])[:4])

	out, _, _, err = run(t, fc, "transfer", "bob", "40", "-o", "json")
	require.NoError(t, err)
	var resp api.TransactionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, uint64(2), resp.Transaction.ID)
	assert.Equal(t, "40", resp.Transaction.Amount.String())

	// sign checks are the server's job
	_, _, _, err = run(t, fc, "transfer", "--", "bob", "-5")
	require.NoError(t, err)
	assert.Equal(t, "-5", fc.amount.String())

	_, _, _, err = run(t, fc, "transfer", "bob", "ten")
	require.ErrorIs(t, err, common.ErrInvalidAmount)
}

func TestServerErrorsPropagate(t *testing.T) {
	fc := &fakeClient{err: common.ErrInsufficientBalance}
	_, _, _, err := run(t, fc, "transfer", "bob", "1000")
	require.ErrorIs(t, err, common.ErrInsufficientBalance)
}

func TestBalanceAndHistory(t *testing.T) {
	fc := &fakeClient{
		balance: big.NewInt(60),
		txs: []api.Transaction{{
			ID: 1, TransactionType: "mint", Admin: "root", Recipient: "alice",
			Amount: big.NewInt(100), Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}},
	}

	out, _, _, err := run(t, fc, "balance")
	require.NoError(t, err)
	assert.Equal(t, "60\n", out)
	assert.Nil(t, fc.principal)

	_, _, _, err = run(t, fc, "balance", "bob")
	require.NoError(t, err)
	require.NotNil(t, fc.principal)
	assert.Equal(t, "bob", *fc.principal)

	out, _, _, err = run(t, fc, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "AMOUNT")
	assert.Contains(t, lines[1], "2026-01-02T03:04:05Z")

	empty := &fakeClient{}
	out, _, _, err = run(t, empty, "ledger", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"transactions":[]}`, out)
}

func TestAccountCommands(t *testing.T) {
	fc := &fakeClient{role: "user", balance: big.NewInt(3), profile: &api.Profile{Name: "Alice"}}

	out, _, _, err := run(t, fc, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "user")

	out, _, _, err = run(t, fc, "role", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","isAdmin":false}`, out)

	_, _, _, err = run(t, fc, "assign-role", "bob", "Admin")
	require.NoError(t, err)
	assert.Equal(t, [2]string{"bob", "Admin"}, fc.assigned)

	_, _, _, err = run(t, fc, "profile", "set", "Alice", "Smith")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", fc.saved)

	out, _, _, err = run(t, &fakeClient{}, "profile", "get", "carol")
	require.NoError(t, err)
	assert.Equal(t, "no profile\n", out)

	fc.users = []api.RegisteredUser{{Principal: "b", Name: "Bob"}, {Principal: "a", Name: "Ann"}}
	out, _, _, err = run(t, fc, "users")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Bob")
	assert.Contains(t, lines[2], "Ann")
}

func TestStatsDetailsExport(t *testing.T) {
	fc := &fakeClient{
		stats:   &api.StatsResponse{RegisteredUsers: 2, Transactions: 5, Supply: big.NewInt(100)},
		details: &api.WalletDetailsResponse{Principal: "bob", Profile: api.Profile{Name: "Bob"}, Balance: big.NewInt(40)},
		export:  &api.ExportResponse{Key: "ledger/2026/01/02/x.json", Transactions: 5},
	}

	out, _, _, err := run(t, fc, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "SUPPLY")
	assert.Contains(t, out, "100")

	out, _, _, err = run(t, fc, "details", "bob", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"principal":"bob","profile":{"name":"Bob"},"balance":40}`, out)

	out, _, _, err = run(t, fc, "export")
	require.NoError(t, err)
	assert.Equal(t, "exported 5 transactions to ledger/2026/01/02/x.json\n", out)
}

func TestTokenCommand(t *testing.T) {
	out, _, _, err := run(t, &fakeClient{}, "token", "alice", "--secret", "s3cret", "--ttl", "5m")
	require.NoError(t, err)
	p, err := auth.GetPrincipalFromToken(strings.TrimSpace(out), []byte("s3cret"))
	require.NoError(t, err)
	assert.Equal(t, "alice", p)

	_, _, _, err = run(t, &fakeClient{}, "token")
	require.ErrorContains(t, err, "principal is required")
}

func TestTokenCommand_PromptSecret(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(int) ([]byte, error) { return []byte("typed\n"), nil }

	out, _, _, err := run(t, &fakeClient{}, "token", "bob", "--prompt-secret", "-o", "json")
	require.NoError(t, err)

	var resp map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "bob", resp["principal"])
	p, err := auth.GetPrincipalFromToken(resp["token"], []byte("typed"))
	require.NoError(t, err)
	assert.Equal(t, "bob", p)
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printTable(&buf, nil, [][]string{{"a"}}))
	assert.Empty(t, buf.String())

	require.NoError(t, printTable(&buf, []string{"id", "value"}, nil))
	assert.Equal(t, "ID  VALUE\n", buf.String())
}
