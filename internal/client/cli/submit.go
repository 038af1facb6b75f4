package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/dvi/internal/models"
)

// Submit walks the mechanic through one inspection and queues it. It works
// offline; line items are listed when the backend can be reached.
func (a *App) Submit(ctx context.Context) error {
	if orders, cachedAt, err := a.workOrders.List(ctx); err != nil {
		a.logger.Debug(ctx, "work orders unavailable", "err", err)
	} else if len(orders) > 0 {
		a.printWorkOrders(orders, cachedAt)
	}

	raw, err := getSimpleText(a.reader, "Work order id", a.out)
	if err != nil {
		return err
	}
	orderID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || orderID <= 0 {
		return fmt.Errorf("invalid work order id %q", raw)
	}

	if a.monitor.Current() {
		a.printLineItems(ctx, orderID)
	}

	sub := models.Submission{OrderID: orderID, Items: []models.InspectionResult{}}
	for {
		item, done, err := a.readResult()
		if err != nil {
			return err
		}
		if done {
			break
		}
		sub.Items = append(sub.Items, item)
	}

	queued, err := a.inspections.Submit(ctx, sub)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Inspection for order %d saved (%d item(s), id %s)\n", queued.OrderID, len(queued.Items), queued.SubmissionID)
	return nil
}

func (a *App) printLineItems(ctx context.Context, orderID int64) {
	items, err := a.inspections.LineItems(ctx, orderID)
	if err != nil {
		a.logger.Warn(ctx, "line items unavailable", "order_id", orderID, "err", err)
		fmt.Fprintln(a.out, "Line items unavailable, enter ids manually")
		return
	}
	for _, it := range items {
		fmt.Fprintf(a.out, "  %d  %s\n", it.ID, it.Description)
	}
}

// readResult prompts for one line item. An empty id ends the list.
func (a *App) readResult() (models.InspectionResult, bool, error) {
	var r models.InspectionResult

	raw, err := getSimpleText(a.reader, "Line item id (empty line to finish)", a.out)
	if err != nil {
		return r, false, err
	}
	if raw == "" {
		return r, true, nil
	}
	r.LineItemID, err = strconv.ParseInt(raw, 10, 64)
	if err != nil || r.LineItemID <= 0 {
		return r, false, fmt.Errorf("invalid line item id %q", raw)
	}

	raw, err = getSimpleText(a.reader, "Status (green/yellow/red/na)", a.out)
	if err != nil {
		return r, false, err
	}
	if r.Status, err = models.ParseStatus(raw); err != nil {
		return r, false, err
	}

	if r.Reason, err = getSimpleText(a.reader, "Reason (optional)", a.out); err != nil {
		return r, false, err
	}

	photo, err := getSimpleText(a.reader, "Photo file (optional)", a.out)
	if err != nil {
		return r, false, err
	}
	if photo != "" {
		if r.Photo, err = photoRef(photo); err != nil {
			return r, false, err
		}
	}
	return r, false, nil
}

// photoRef turns a path typed by the user into a file:// reference that
// stays valid regardless of the working directory at upload time.
func photoRef(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("photo: %w", err)
	}
	if fi.IsDir() {
		return "", fmt.Errorf("photo: %s is a directory", abs)
	}
	return "file://" + abs, nil
}
