package core

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/DonovanMods/mrunpack/internal/linker"
	"github.com/DonovanMods/mrunpack/internal/storage/cache"
	"github.com/DonovanMods/mrunpack/internal/storage/config"
	"github.com/DonovanMods/mrunpack/internal/storage/db"

	"github.com/charmbracelet/log"
)

// DatabaseFile is the install ledger's file name inside the data directory
const DatabaseFile = "mrunpack.db"

// StagingDirName is the staging directory's name inside the work directory
const StagingDirName = ".tmp"

// ServiceConfig holds configuration for the core service
type ServiceConfig struct {
	ConfigDir string // Directory for configuration files
	DataDir   string // Directory for the install ledger
	CacheDir  string // Directory for cached installer jars (overridden by cache_path)
	WorkDir   string // Directory holding the staging area and dry-run instances

	Logger     *log.Logger   // Defaults to a discarding logger
	Confirm    Confirmer     // Approves removal of leftover directories; nil declines
	HTTPClient *http.Client  // Defaults to a client with the configured timeout
	Runner     ProcessRunner // Defaults to an ExecRunner with the configured timeout
}

// Service is the main orchestrator for modpack installs
type Service struct {
	config     *config.Config
	db         *db.DB
	cache      *cache.Cache
	logger     *log.Logger
	confirm    Confirmer
	downloader *Downloader
	modloader  *ModloaderInstaller

	configDir string
	dataDir   string
	workDir   string
}

// NewService creates a new core service instance
func NewService(cfg ServiceConfig) (*Service, error) {
	appConfig, err := config.Load(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	database, err := db.New(filepath.Join(cfg.DataDir, DatabaseFile))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: appConfig.HTTPTimeout}
	}

	runner := cfg.Runner
	if runner == nil {
		runner = NewExecRunner(appConfig.InstallerTimeout)
	}

	cacheDir := cfg.CacheDir
	if appConfig.CachePath != "" {
		cacheDir = appConfig.CachePath
	}
	installerCache := cache.New(cacheDir)

	workDir := cfg.WorkDir
	if workDir == "" {
		workDir = "."
	}
	if abs, err := filepath.Abs(workDir); err == nil {
		workDir = abs
	}

	downloader := NewDownloader(httpClient)

	return &Service{
		config:     appConfig,
		db:         database,
		cache:      installerCache,
		logger:     logger,
		confirm:    cfg.Confirm,
		downloader: downloader,
		modloader: NewModloaderInstaller(downloader, installerCache, runner,
			appConfig.JavaPath, appConfig.InstallerVersions()),
		configDir: cfg.ConfigDir,
		dataDir:   cfg.DataDir,
		workDir:   workDir,
	}, nil
}

// Close releases resources held by the service
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Config returns the loaded application configuration
func (s *Service) Config() *config.Config {
	return s.config
}

// Cache returns the installer cache
func (s *Service) Cache() *cache.Cache {
	return s.cache
}

// StagingDir returns the shared staging directory
func (s *Service) StagingDir() string {
	return filepath.Join(s.workDir, StagingDirName)
}

// DryRunInstanceDir returns the default instance directory for dry runs
func (s *Service) DryRunInstanceDir() string {
	return filepath.Join(s.workDir, "instance")
}

// History returns the most recent installs, newest first
func (s *Service) History(limit int) ([]db.InstallRecord, error) {
	return s.db.ListInstalls(limit)
}

// GetInstall returns one ledger record with its file list
func (s *Service) GetInstall(id int64) (*db.InstallRecord, error) {
	return s.db.GetInstall(id)
}

func (s *Service) linker() linker.Linker {
	return linker.New(s.config.LinkMethod)
}
