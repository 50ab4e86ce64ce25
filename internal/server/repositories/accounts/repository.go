// Package accounts declares the storage contract for principal roles and
// profiles.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/workcredits/internal/server/models"
)

type Repository interface {
	// UpsertRole sets the role of principal.
	UpsertRole(ctx context.Context, principal, role string) error

	ListRoles(ctx context.Context) ([]*models.RoleAssignment, error)

	// UpsertProfile saves the display name of principal, keeping the
	// registration sequence of an existing row.
	UpsertProfile(ctx context.Context, principal, name string) error

	// ListProfiles returns profiles in registration order.
	ListProfiles(ctx context.Context) ([]*models.Profile, error)
}
