package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/rootpulse/pulse-cli/internal/client/models"
)

// Categories lists the portal's catalog verticals.
func (a *App) Categories(ctx context.Context) error {
	if err := a.RequireLogin(); err != nil {
		return err
	}

	categories, err := a.api.ServiceCategories(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Failed to list categories: %s\n", err)
		return err
	}

	for _, c := range categories {
		fmt.Fprintln(a.out, c)
	}
	return nil
}

// Services lists catalog services, optionally filtered by category.
func (a *App) Services(ctx context.Context, category string) error {
	if err := a.RequireLogin(); err != nil {
		return err
	}

	services, err := a.api.Services(ctx, models.ServiceCategory(category))
	if err != nil {
		fmt.Fprintf(a.out, "Failed to list services: %s\n", err)
		return err
	}
	if len(services) == 0 {
		fmt.Fprintln(a.out, "No services found.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY")
	for _, s := range services {
		if !s.IsActive {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Name, s.Category)
	}
	return w.Flush()
}

// Request files a concierge request for the given service, with optional
// notes read interactively.
func (a *App) Request(ctx context.Context, serviceID string) error {
	if err := a.RequireLogin(); err != nil {
		return err
	}

	notes, err := getSimpleText(a.reader, "Notes (optional)", a.out)
	if err != nil {
		return err
	}

	req, err := a.api.RequestService(ctx, serviceID, notes)
	if err != nil {
		fmt.Fprintf(a.out, "Request failed: %s\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Request %s filed, status: %s\n", req.ID, req.Status)
	return nil
}

// Requests lists the user's service requests.
func (a *App) Requests(ctx context.Context) error {
	if err := a.RequireLogin(); err != nil {
		return err
	}

	requests, err := a.api.MyRequests(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Failed to list requests: %s\n", err)
		return err
	}
	if len(requests) == 0 {
		fmt.Fprintln(a.out, "No requests yet.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSERVICE\tSTATUS\tCREATED")
	for _, r := range requests {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.ServiceID, r.Status, r.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}
