package ledger

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/workcredits/internal/common"
)

// directory maps principals to roles and profiles. Entries are created
// lazily and never removed.
type directory struct {
	roles    map[Principal]Role
	profiles map[Principal]Profile
	order    []Principal
}

func newDirectory() *directory {
	return &directory{
		roles:    make(map[Principal]Role),
		profiles: make(map[Principal]Profile),
	}
}

func (d *directory) role(p Principal) Role {
	if r, ok := d.roles[p]; ok {
		return r
	}
	return DefaultRole
}

// checkAssign validates an assignRole call without applying it.
func (d *directory) checkAssign(caller, target Principal, role Role) error {
	if d.role(caller) != RoleAdmin {
		return fmt.Errorf("%w: only admins can assign roles", common.ErrUnauthorized)
	}
	if target.IsZero() {
		return common.ErrInvalidPrincipal
	}
	if !role.Valid() {
		return fmt.Errorf("%w: %q", common.ErrInvalidRole, role)
	}
	return nil
}

func (d *directory) assignRole(caller, target Principal, role Role) error {
	if err := d.checkAssign(caller, target, role); err != nil {
		return err
	}
	d.setRole(target, role)
	return nil
}

func (d *directory) setRole(p Principal, role Role) {
	d.roles[p] = role
}

func (d *directory) profile(p Principal) (Profile, bool) {
	prof, ok := d.profiles[p]
	return prof, ok
}

// normalizeProfile trims the display name and rejects blank ones.
func normalizeProfile(prof Profile) (Profile, error) {
	prof.Name = strings.TrimSpace(prof.Name)
	if prof.Name == "" {
		return Profile{}, fmt.Errorf("%w: name is required", common.ErrInvalidProfile)
	}
	return prof, nil
}

// saveProfile upserts the caller's own profile. There is no target
// argument: a principal can only ever write its own entry.
func (d *directory) saveProfile(caller Principal, prof Profile) {
	if _, ok := d.profiles[caller]; !ok {
		d.order = append(d.order, caller)
	}
	d.profiles[caller] = prof
}

// registered lists principals with a profile in registration order.
func (d *directory) registered() []RegisteredUser {
	out := make([]RegisteredUser, 0, len(d.order))
	for _, p := range d.order {
		out = append(out, RegisteredUser{Principal: p, Name: d.profiles[p].Name})
	}
	return out
}
