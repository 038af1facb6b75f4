package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/dvi/internal/client/client"
	"github.com/dmitrijs2005/dvi/internal/models"
)

// WorkOrders prints the signed-in mechanic's open work orders. Offline it
// falls back to the last list fetched on this device.
func (a *App) WorkOrders(ctx context.Context) error {
	orders, cachedAt, err := a.workOrders.List(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			fmt.Fprintln(a.out, "Server unavailable and no saved work orders on this device")
		}
		return err
	}
	a.printWorkOrders(orders, cachedAt)
	return nil
}

// Mechanics lists the shops and then the mechanics of the chosen one, so a
// mechanic can find the id to log in with.
func (a *App) Mechanics(ctx context.Context) error {
	companies, err := a.workOrders.Companies(ctx)
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		fmt.Fprintln(a.out, "No companies registered")
		return nil
	}
	for _, c := range companies {
		fmt.Fprintf(a.out, "  %d  %s\n", c.ID, c.Name)
	}

	raw, err := getSimpleText(a.reader, "Company id", a.out)
	if err != nil {
		return err
	}
	companyID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || companyID <= 0 {
		return fmt.Errorf("invalid company id %q", raw)
	}

	mechanics, err := a.workOrders.Mechanics(ctx, companyID)
	if err != nil {
		return err
	}
	if len(mechanics) == 0 {
		fmt.Fprintln(a.out, "No mechanics for this company")
		return nil
	}
	for _, m := range mechanics {
		fmt.Fprintf(a.out, "  %d  %s\n", m.ID, m.Name)
	}
	return nil
}

func (a *App) printWorkOrders(orders []models.WorkOrder, cachedAt time.Time) {
	if !cachedAt.IsZero() {
		fmt.Fprintf(a.out, "Offline, work orders as of %s\n", cachedAt.Local().Format("2006-01-02 15:04"))
	}
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No open work orders")
		return
	}
	for _, w := range orders {
		customer := strings.TrimSpace(w.FirstName + " " + w.LastName)
		if customer == "" {
			fmt.Fprintf(a.out, "  %d  %s\n", w.ID, w.Vehicle())
			continue
		}
		fmt.Fprintf(a.out, "  %d  %s  %s\n", w.ID, w.Vehicle(), customer)
	}
}
