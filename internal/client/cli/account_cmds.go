package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/workcredits/internal/api"
	"github.com/dmitrijs2005/workcredits/internal/client/client"
	"github.com/spf13/cobra"
)

func (a *app) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the caller's role, profile and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				role, err := c.CallerRole(ctx)
				if err != nil {
					return err
				}
				prof, err := c.CallerProfile(ctx)
				if err != nil {
					return err
				}
				bal, err := c.WalletBalance(ctx, nil)
				if err != nil {
					return err
				}

				if a.jsonOutput() {
					return printJSON(a.out, map[string]any{"role": role, "profile": prof, "balance": bal})
				}
				name := "-"
				if prof != nil {
					name = prof.Name
				}
				return printTable(a.out, []string{"role", "name", "balance"}, [][]string{{role, name, bal.String()}})
			})
		},
	}
}

func (a *app) newRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "role",
		Short: "Show the caller's role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				role, err := c.CallerRole(ctx)
				if err != nil {
					return err
				}
				admin, err := c.IsCallerAdmin(ctx)
				if err != nil {
					return err
				}
				if a.jsonOutput() {
					return printJSON(a.out, map[string]any{"role": role, "isAdmin": admin})
				}
				_, err = fmt.Fprintln(a.out, role)
				return err
			})
		},
	}
}

func (a *app) newAssignRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign-role <principal> <admin|user|guest>",
		Short: "Set the role of a principal (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if err := c.AssignRole(ctx, args[0], args[1]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(a.out, "%s is now %s\n", args[0], strings.ToLower(args[1]))
				return err
			})
		},
	}
}

func (a *app) newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Read or save display names",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [principal]",
		Short: "Show the profile of a principal, the caller by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				var (
					prof *api.Profile
					err  error
				)
				if len(args) == 1 {
					prof, err = c.UserProfile(ctx, args[0])
				} else {
					prof, err = c.CallerProfile(ctx)
				}
				if err != nil {
					return err
				}

				if a.jsonOutput() {
					return printJSON(a.out, api.ProfileResponse{Profile: prof})
				}
				if prof == nil {
					_, err = fmt.Fprintln(a.out, "no profile")
					return err
				}
				_, err = fmt.Fprintln(a.out, prof.Name)
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <name>",
		Short: "Save the caller's display name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if err := c.SaveCallerProfile(ctx, name); err != nil {
					return err
				}
				_, err := fmt.Fprintln(a.out, "profile saved")
				return err
			})
		},
	})
	return cmd
}

func (a *app) newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				users, err := c.RegisteredUsers(ctx)
				if err != nil {
					return err
				}
				if a.jsonOutput() {
					return printJSON(a.out, api.RegisteredUsersResponse{Users: users})
				}
				rows := make([][]string, 0, len(users))
				for _, u := range users {
					rows = append(rows, []string{u.Principal, u.Name})
				}
				return printTable(a.out, []string{"principal", "name"}, rows)
			})
		},
	}
}

func (a *app) newDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details <principal>",
		Short: "Show the profile and balance of a registered principal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				d, err := c.WalletDetails(ctx, args[0])
				if err != nil {
					return err
				}
				if a.jsonOutput() {
					return printJSON(a.out, d)
				}
				return printTable(a.out, []string{"principal", "name", "balance"},
					[][]string{{d.Principal, d.Profile.Name, amountString(d.Balance)}})
			})
		},
	}
}
