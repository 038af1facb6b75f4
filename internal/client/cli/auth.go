package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/dvi/internal/client/client"
)

// getSimpleText and getPIN are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPIN = GetPIN

// Login asks for the mechanic id and PIN and opens a session. Queued
// inspections waiting for a session are flushed right after.
func (a *App) Login(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "Enter mechanic id", a.out)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid mechanic id %q", raw)
	}

	pin, err := getPIN(a.out)
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, id, pin); err != nil {
		switch {
		case errors.Is(err, client.ErrUnavailable):
			fmt.Fprintln(a.out, "Server unavailable, log in again once online. Queued inspections are kept.")
		case errors.Is(err, client.ErrUnauthorized):
			fmt.Fprintln(a.out, "Invalid mechanic id or PIN")
		}
		a.logger.Warn(ctx, "login unsuccessful", "mechanic_id", id, "err", err)
		return err
	}

	a.logger.Info(ctx, "login successful", "mechanic_id", id)
	fmt.Fprintln(a.out, "Logged in")
	a.engine.Resume(ctx)
	return nil
}

// Logout forgets the session. Queued inspections stay on the device.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
