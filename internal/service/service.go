package service

import (
	"context"

	"github.com/hance08/banktech/internal/config"
	"github.com/hance08/banktech/internal/gateway"
	"github.com/hance08/banktech/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	Account     *AccountService
	Transaction *TransactionService
	Category    *CategoryService
}

func NewService(gw gateway.Gateway, repo store.Repository, cfg *config.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	accounts := NewAccountService(gw, repo, logger)
	categories := NewCategoryService(gw, repo, cfg.Defaults.CategoryID, logger)

	return &Service{
		Account:     accounts,
		Category:    categories,
		Transaction: NewTransactionService(gw, repo, accounts, categories, logger),
	}
}

// LoadDashboard fetches the user's accounts and the category list
// concurrently.
func (s *Service) LoadDashboard(ctx context.Context, userID string) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.Account.Fetch(ctx, userID)
	})
	g.Go(func() error {
		return s.Category.Fetch(ctx)
	})

	return g.Wait()
}
