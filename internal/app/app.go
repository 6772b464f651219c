package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hance08/banktech/internal/config"
	"github.com/hance08/banktech/internal/constants"
	"github.com/hance08/banktech/internal/gateway"
	"github.com/hance08/banktech/internal/gateway/memory"
	"github.com/hance08/banktech/internal/logger"
	"github.com/hance08/banktech/internal/service"
	"github.com/hance08/banktech/internal/session"
	"github.com/hance08/banktech/internal/store"
	"go.uber.org/zap"
)

// MemoryScheme as api.base_url runs against the built-in demo data.
const MemoryScheme = "memory://"

type App struct {
	Config  *config.Config
	Service *service.Service
	Session *session.Manager
	Store   store.Repository
	Gateway gateway.Gateway
	Logger  *zap.Logger
}

// NewApp initialize logger, database, backend gateway and core logic, then return App entity
func NewApp(cfg *config.Config, migrationFS fs.FS) (*App, func(), error) {
	appDir, err := DataDir()
	if err != nil {
		return nil, nil, err
	}

	logPath := cfg.Log.Path
	if logPath == "" {
		logPath = filepath.Join(appDir, "banktech.log")
	} else if logPath == "off" {
		logPath = ""
	}
	log, err := logger.New(cfg.Log.Level, logPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	dbStore, err := store.NewStore(DBPath(cfg, appDir), migrationFS)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var gw gateway.Gateway
	var demo *memory.Gateway
	if strings.HasPrefix(cfg.API.BaseURL, MemoryScheme) {
		log.Info("using in-memory demo backend")
		demo = loadDemo(dbStore, log)
		gw = demo
	} else {
		gw = gateway.NewHTTPGateway(cfg.API, log)
	}

	svc := service.NewService(gw, dbStore, cfg, log)
	sess := session.NewManager(gw, dbStore, svc.Account, cfg.Session.TTL, log)

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			if demo != nil {
				saveDemo(demo, dbStore, log)
			}
			if err := dbStore.Close(); err != nil {
				fmt.Printf("Error closing DB: %v\n", err)
			}
			_ = log.Sync()
		})
	}

	return &App{
		Config:  cfg,
		Service: svc,
		Session: sess,
		Store:   dbStore,
		Gateway: gw,
		Logger:  log,
	}, cleanup, nil
}

// loadDemo restores the demo backend left by the previous run, seeding it on
// first use.
func loadDemo(repo store.Repository, log *zap.Logger) *memory.Gateway {
	demo := memory.NewDemo()

	raw, err := repo.Get(constants.KeyDemoState)
	if err != nil {
		if !errors.Is(err, store.ErrRecordNotFound) {
			log.Warn("read demo state", zap.Error(err))
		}
		return demo
	}
	if err := demo.Restore([]byte(raw)); err != nil {
		log.Warn("discarding demo state", zap.Error(err))
	}
	return demo
}

func saveDemo(demo *memory.Gateway, repo store.Repository, log *zap.Logger) {
	raw, err := demo.Snapshot()
	if err == nil {
		err = repo.Put(constants.KeyDemoState, string(raw), 0)
	}
	if err != nil {
		log.Warn("save demo state", zap.Error(err))
	}
}

// DBPath resolves database.path, defaulting to the app data dir.
func DBPath(cfg *config.Config, appDir string) string {
	if cfg.Database.Path == "" {
		return filepath.Join(appDir, "banktech.db")
	}
	path, err := ExpandPath(cfg.Database.Path)
	if err != nil {
		return cfg.Database.Path
	}
	return path
}

func DataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, ".banktech"), nil
	}

	return filepath.Join(configDir, "banktech"), nil
}

func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
			return filepath.Join(home, path[2:]), nil
		}
	}
	return path, nil
}
