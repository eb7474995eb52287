package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rootpulse/pulse-cli/internal/client/session"
	"github.com/rootpulse/pulse-cli/internal/common"
)

// getSimpleText, getPassword, and getYesNo are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getYesNo      = GetYesNo
)

// Login prompts for an identifier (email, username, or phone), a password,
// and a remember-me choice, then authenticates. A remembered session is
// persisted durably and survives restarts; otherwise it lives only for this
// process.
//
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter email, username or phone", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	remember, err := getYesNo(a.reader, "Stay logged in?", a.out)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, identifier, string(password), remember); err != nil {
		if errors.Is(err, common.ErrUnavailable) {
			fmt.Fprintln(a.out, "Server unavailable, try again later.")
		} else {
			fmt.Fprintf(a.out, "Login failed: %s\n", err)
		}
		return err
	}

	snap := a.session.Snapshot()
	fmt.Fprintf(a.out, "Welcome back, %s!\n", snap.User.Username)
	return nil
}

// Register prompts for the new account's fields and creates it. A fresh
// registration is always a durable session.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone", a.out)
	if err != nil {
		return err
	}
	firstName, err := getSimpleText(a.reader, "Enter first name (optional)", a.out)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Enter last name (optional)", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	data := session.RegisterData{
		Email:     email,
		Username:  username,
		Phone:     phone,
		Password:  string(password),
		FirstName: firstName,
		LastName:  lastName,
	}

	if err := a.session.Register(ctx, data); err != nil {
		fmt.Fprintf(a.out, "Registration failed: %s\n", err)
		return err
	}

	fmt.Fprintln(a.out, "Account created, you are now logged in.")
	return nil
}

// Logout ends the session. It never fails: the server is told best-effort
// and local state is cleared regardless.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
