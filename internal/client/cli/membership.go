package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
)

// Membership shows the user's active membership.
func (a *App) Membership(ctx context.Context) error {
	if err := a.RequireLogin(); err != nil {
		return err
	}

	m, err := a.api.CurrentMembership(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Failed to fetch membership: %s\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Tier: %s\n", m.Tier)
	fmt.Fprintf(a.out, "Valid: %s to %s\n", m.StartDate.Format("2006-01-02"), m.EndDate.Format("2006-01-02"))
	if m.AutoRenew {
		fmt.Fprintln(a.out, "Auto-renew is on.")
	}
	return nil
}

// Plans lists the purchasable membership plans.
func (a *App) Plans(ctx context.Context) error {
	if err := a.RequireLogin(); err != nil {
		return err
	}

	plans, err := a.api.Plans(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Failed to list plans: %s\n", err)
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE")
	for _, p := range plans {
		fmt.Fprintf(w, "%s\t%s\t%.0f %s/%s\n", p.ID, p.Name, p.Price, p.Currency, p.Period)
	}
	return w.Flush()
}

// Upgrade switches the user to the given plan and patches the cached user's
// tier from the server's reply.
func (a *App) Upgrade(ctx context.Context, planID string) error {
	if err := a.RequireLogin(); err != nil {
		return err
	}

	confirmed, err := getYesNo(a.reader, fmt.Sprintf("Upgrade to plan %q?", planID), a.out)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	m, err := a.api.UpgradePlan(ctx, planID)
	if err != nil {
		fmt.Fprintf(a.out, "Upgrade failed: %s\n", err)
		return err
	}

	a.session.UpdateUser(ctx, userTierPatch(m.Tier))
	fmt.Fprintf(a.out, "You are now on the %s tier.\n", m.Tier)
	return nil
}
