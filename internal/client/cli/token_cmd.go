package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/workcredits/internal/server/auth"
	"github.com/spf13/cobra"
)

// newTokenCmd signs a development access token. It only works when the
// caller knows the secret the server verifies tokens with.
func (a *app) newTokenCmd() *cobra.Command {
	var (
		secret string
		prompt bool
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token [principal]",
		Short: "Sign an access token for a principal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			principal := a.cfg.Principal
			if len(args) == 1 {
				principal = args[0]
			}
			if principal == "" {
				return errors.New("principal is required: pass it as an argument or set LEDGER_PRINCIPAL")
			}

			key := a.cfg.SecretKey
			switch {
			case cmd.Flags().Changed("secret"):
				key = secret
			case prompt:
				s, err := promptSecret(cmd.ErrOrStderr())
				if err != nil {
					return fmt.Errorf("read secret: %w", err)
				}
				key = s
			}
			if key == "" {
				return errors.New("secret is empty")
			}

			if !cmd.Flags().Changed("ttl") {
				ttl = a.cfg.TokenTTL
			}
			token, err := auth.GenerateToken(principal, []byte(key), ttl)
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				return printJSON(a.out, map[string]any{
					"principal": principal,
					"token":     token,
					"expiresAt": time.Now().Add(ttl).UTC().Format(time.RFC3339),
				})
			}
			_, err = fmt.Fprintln(a.out, token)
			return err
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "shared signing secret of the server")
	cmd.Flags().BoolVar(&prompt, "prompt-secret", false, "read the secret from the terminal")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
