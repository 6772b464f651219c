package app

import (
	"context"
	"errors"

	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/service"
)

// RequireUser returns the logged-in user or session.ErrNotLoggedIn.
func (a *App) RequireUser() (*model.User, error) {
	return a.Session.Require()
}

// LoadHistory loads the user's accounts and categories, then the history of
// the selected account. It returns the selected account number, or "" when
// the user has no account yet.
func (a *App) LoadHistory(ctx context.Context, user *model.User) (string, error) {
	if err := a.Service.LoadDashboard(ctx, user.ID); err != nil {
		return "", err
	}

	selected, err := a.Service.Account.Selected()
	if errors.Is(err, service.ErrAccountNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if err := a.Service.Transaction.Fetch(ctx, selected); err != nil {
		return "", err
	}
	return selected, nil
}
