package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hance08/banktech/internal/cache"
	"github.com/hance08/banktech/internal/constants"
	"github.com/hance08/banktech/internal/gateway"
	"github.com/hance08/banktech/internal/model"
	"github.com/hance08/banktech/internal/store"
	"go.uber.org/zap"
)

const categoriesTTL = 5 * time.Minute

// CategoryService holds the read-only category list.
type CategoryService struct {
	mu         sync.Mutex
	gw         gateway.Gateway
	repo       store.Repository
	cache      *cache.LRU[[]model.Category]
	logger     *zap.Logger
	defaultID  string
	categories []model.Category
	loading    bool
	errMsg     string
}

// NewCategoryService caches the list in process and in the kv table, so
// successive CLI invocations within categoriesTTL skip the backend.
func NewCategoryService(gw gateway.Gateway, repo store.Repository, defaultID string, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		gw:        gw,
		repo:      repo,
		cache:     cache.NewLRU[[]model.Category](1, categoriesTTL),
		logger:    logger.With(zap.String("component", "categories")),
		defaultID: defaultID,
	}
}

func (cs *CategoryService) Fetch(ctx context.Context) error {
	cached, ok := cs.cache.Get(constants.KeyCategories)
	if !ok {
		cached, ok = cs.loadPersisted()
	}
	if ok {
		cs.mu.Lock()
		cs.categories = cached
		cs.errMsg = ""
		cs.mu.Unlock()
		return nil
	}

	cs.mu.Lock()
	cs.loading = true
	cs.errMsg = ""
	cs.mu.Unlock()

	categories, err := cs.gw.ListCategories(ctx)

	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.loading = false

	if err != nil {
		cs.errMsg = "Failed to fetch categories"
		cs.logger.Error("fetch categories", zap.Error(err))
		return fmt.Errorf("failed to fetch categories: %w", err)
	}

	cs.categories = categories
	cs.cache.Set(constants.KeyCategories, categories)
	cs.persist(categories)
	return nil
}

// Invalidate drops both cached copies so the next Fetch hits the backend.
func (cs *CategoryService) Invalidate() {
	cs.cache.Delete(constants.KeyCategories)
	if cs.repo == nil {
		return
	}
	if err := cs.repo.Delete(constants.KeyCategories); err != nil {
		cs.logger.Warn("drop persisted categories", zap.Error(err))
	}
}

func (cs *CategoryService) loadPersisted() ([]model.Category, bool) {
	if cs.repo == nil {
		return nil, false
	}

	raw, err := cs.repo.Get(constants.KeyCategories)
	if err != nil {
		if !errors.Is(err, store.ErrRecordNotFound) && !errors.Is(err, store.ErrRecordExpired) {
			cs.logger.Warn("read persisted categories", zap.Error(err))
		}
		return nil, false
	}

	var categories []model.Category
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		cs.logger.Warn("decode persisted categories", zap.Error(err))
		return nil, false
	}
	cs.cache.Set(constants.KeyCategories, categories)
	return categories, true
}

// persist must not fail the fetch; the backend answer is already in hand.
func (cs *CategoryService) persist(categories []model.Category) {
	if cs.repo == nil {
		return
	}

	raw, err := json.Marshal(categories)
	if err != nil {
		cs.logger.Warn("encode categories", zap.Error(err))
		return
	}
	if err := cs.repo.Put(constants.KeyCategories, string(raw), categoriesTTL); err != nil {
		cs.logger.Warn("persist categories", zap.Error(err))
	}
}

func (cs *CategoryService) Categories() []model.Category {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]model.Category(nil), cs.categories...)
}

func (cs *CategoryService) Loading() bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.loading
}

func (cs *CategoryService) Err() string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.errMsg
}

// Default returns the uncategorized bucket: the category named "Other", else
// the configured default id.
func (cs *CategoryService) Default() model.Category {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for _, c := range cs.categories {
		if c.IsDefault() {
			return c
		}
	}
	for _, c := range cs.categories {
		if c.ID == cs.defaultID {
			return c
		}
	}
	return model.Category{ID: cs.defaultID, Name: model.DefaultCategoryName}
}

func (cs *CategoryService) Find(id string) (model.Category, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for _, c := range cs.categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

// Resolve maps an empty or unknown id to the default category.
func (cs *CategoryService) Resolve(id string) model.Category {
	if id != "" {
		if c, ok := cs.Find(id); ok {
			return c
		}
	}
	return cs.Default()
}
