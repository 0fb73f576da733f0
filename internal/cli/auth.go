package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dmitrijs2005/musicarchive/internal/common"
	"github.com/dmitrijs2005/musicarchive/internal/models"
	"github.com/dmitrijs2005/musicarchive/internal/services/credentials"
)

// getSimpleText, getPassword and getPayload are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getPayload = GetPayload

// Register prompts for account and profile details and creates the account.
// Passwords are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	ask := func(prompt string) (string, error) { return getSimpleText(a.reader, prompt, a.out) }

	username, err := ask("Enter username")
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, "Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	if !bytes.Equal(password, confirm) {
		return fmt.Errorf("%w: passwords do not match", common.ErrorValidation)
	}

	roleText, err := ask("Enter role (user/admin)")
	if err != nil {
		return err
	}
	role, err := models.ParseRole(roleText)
	if err != nil {
		return err
	}

	var p models.Profile
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Enter first name", &p.FirstName},
		{"Enter last name", &p.LastName},
		{"Enter date of birth (YYYY-MM-DD, optional)", &p.DateOfBirth},
		{"Enter email", &p.Email},
	} {
		if *f.dst, err = ask(f.prompt); err != nil {
			return err
		}
	}

	acc, err := a.creds.RegisterAccount(ctx, credentials.RegisterRequest{
		Username: username,
		Password: password,
		Role:     role,
		Profile:  p,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s as %s. You can log in now.\n", acc.Username, acc.Role)
	return nil
}

// Login prompts for credentials and, on success, makes the resulting
// principal the session's acting account.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	p, err := a.creds.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}

	a.principal = p
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", p.Username(), p.Role())
	return nil
}

// Logout drops the session's principal.
func (a *App) Logout(_ context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrorUnauthenticated
	}
	a.principal = credentials.Principal{}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(_ context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrorUnauthenticated
	}
	fmt.Fprintf(a.out, "%s (%s), account #%d\n", a.principal.Username(), a.principal.Role(), a.principal.AccountID())
	return nil
}
