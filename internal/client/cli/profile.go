package cli

import (
	"context"
	"fmt"

	"github.com/rootpulse/pulse-cli/internal/client/api"
	"github.com/rootpulse/pulse-cli/internal/client/models"
	"github.com/rootpulse/pulse-cli/internal/common"
)

// Whoami prints the current account, refreshed from the server when
// reachable. Falls back to the locally cached user.
func (a *App) Whoami(ctx context.Context) error {
	if err := a.RequireLogin(); err != nil {
		return err
	}

	if err := a.session.RefreshProfile(ctx); err != nil {
		a.log.Debug(ctx, "profile refresh failed, showing cached user", "error", err)
	}

	u := a.session.Snapshot().User
	fmt.Fprintf(a.out, "%s <%s>\n", u.Username, u.Email)
	if u.FirstName != "" || u.LastName != "" {
		fmt.Fprintf(a.out, "Name:  %s %s\n", u.FirstName, u.LastName)
	}
	if u.Phone != "" {
		fmt.Fprintf(a.out, "Phone: %s\n", u.Phone)
	}
	fmt.Fprintf(a.out, "Tier:  %s\n", u.MembershipTier)
	return nil
}

// Profile interactively edits the account's name and phone. Empty answers
// keep the current values. The change is sent to the server first; the
// local session is patched with the server's reply.
func (a *App) Profile(ctx context.Context) error {
	if err := a.RequireLogin(); err != nil {
		return err
	}

	firstName, err := getSimpleText(a.reader, "First name (empty to keep)", a.out)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Last name (empty to keep)", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Phone (empty to keep)", a.out)
	if err != nil {
		return err
	}

	var upd api.ProfileUpdate
	if firstName != "" {
		upd.FirstName = &firstName
	}
	if lastName != "" {
		upd.LastName = &lastName
	}
	if phone != "" {
		upd.Phone = &phone
	}
	if upd == (api.ProfileUpdate{}) {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	user, err := a.api.UpdateProfile(ctx, upd)
	if err != nil {
		fmt.Fprintf(a.out, "Profile update failed: %s\n", err)
		return err
	}

	a.session.UpdateUser(ctx, models.UserPatch{
		FirstName: &user.FirstName,
		LastName:  &user.LastName,
		Phone:     &user.Phone,
	})

	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}

// RequireLogin prints a hint and returns an error when no session exists.
func (a *App) RequireLogin() error {
	if a.isLoggedIn() {
		return nil
	}
	fmt.Fprintln(a.out, "Please log in first.")
	return common.ErrNotAuthenticated
}
