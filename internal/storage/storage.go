// Package storage opens a .lodge/ directory and wires its collections.
package storage

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jacksmith/lodge/internal/record"
	"github.com/jacksmith/lodge/internal/repository"
	"gopkg.in/yaml.v3"
)

const (
	// lodgeDir is the name of the lodge directory.
	lodgeDir = ".lodge"
	// configFile is the name of the config file within .lodge/.
	configFile = "config.yaml"
	// sqliteFile is the database used by the sqlite driver.
	sqliteFile = "lodge.db"
	// currentVersion is written to config.yaml by Init.
	currentVersion = 1
)

// Collection names. With the yaml driver each is stored as <name>.yaml.
const (
	FacilitiesCollection   = "facilities"
	CustomersCollection    = "customers"
	ReservationsCollection = "reservations"
)

// Driver selects how collections are persisted.
type Driver string

const (
	DriverYAML   Driver = "yaml"
	DriverSQLite Driver = "sqlite"
)

// Valid reports whether d is a known driver.
func (d Driver) Valid() bool {
	return d == DriverYAML || d == DriverSQLite
}

// StorageConfig contains settings stored in .lodge/config.yaml.
type StorageConfig struct {
	Version int    `yaml:"version"`
	Driver  Driver `yaml:"driver"`
}

// Option configures Open and Init.
type Option func(*Storage)

// WithLogger sets the logger handed to every collection.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Storage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Storage provides access to a .lodge/ directory.
type Storage struct {
	root   string // path to directory containing .lodge/
	cfg    StorageConfig
	db     *sql.DB // nil unless the sqlite driver is in use
	logger *slog.Logger

	facilities   *repository.FacilityRepository
	customers    *repository.CustomerRepository
	reservations *repository.ReservationRepository
}

// Open returns a Storage for the given directory.
// Returns error if .lodge/ does not exist.
func Open(dir string, opts ...Option) (*Storage, error) {
	lodgePath := filepath.Join(dir, lodgeDir)
	info, err := os.Stat(lodgePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(".lodge/ directory not found in %s (run 'lodge init')", dir)
		}
		return nil, fmt.Errorf("failed to access .lodge/: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf(".lodge is not a directory")
	}

	cfg, err := loadStorageConfig(filepath.Join(lodgePath, configFile))
	if err != nil {
		return nil, err
	}

	return newStorage(dir, cfg, opts)
}

// Init creates .lodge/ with a config.yaml selecting the given driver.
// Returns error if .lodge/ already exists. An empty driver means yaml.
func Init(dir string, driver Driver, opts ...Option) (*Storage, error) {
	lodgePath := filepath.Join(dir, lodgeDir)

	// Check if .lodge/ already exists
	if _, err := os.Stat(lodgePath); err == nil {
		return nil, fmt.Errorf(".lodge/ directory already exists in %s", dir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check for .lodge/: %w", err)
	}

	if driver == "" {
		driver = DriverYAML
	}
	if !driver.Valid() {
		return nil, fmt.Errorf("unknown storage driver %q (expected %s or %s)", driver, DriverYAML, DriverSQLite)
	}

	if err := os.MkdirAll(lodgePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .lodge/: %w", err)
	}

	cfg := StorageConfig{Version: currentVersion, Driver: driver}
	cfgData, err := yaml.Marshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	cfgPath := filepath.Join(lodgePath, configFile)
	if err := os.WriteFile(cfgPath, cfgData, 0644); err != nil {
		os.RemoveAll(lodgePath)
		return nil, fmt.Errorf("failed to write config.yaml: %w", err)
	}

	s, err := newStorage(dir, cfg, opts)
	if err != nil {
		// Clean up on failure
		os.RemoveAll(lodgePath)
		return nil, err
	}
	return s, nil
}

func loadStorageConfig(path string) (StorageConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Directories created by hand default to the yaml driver.
			return StorageConfig{Version: currentVersion, Driver: DriverYAML}, nil
		}
		return StorageConfig{}, fmt.Errorf("failed to read %s: %w", configFile, err)
	}

	var cfg StorageConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return StorageConfig{}, fmt.Errorf("failed to parse %s: %w", configFile, err)
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverYAML
	}
	if !cfg.Driver.Valid() {
		return StorageConfig{}, fmt.Errorf("unknown storage driver %q in %s", cfg.Driver, configFile)
	}
	return cfg, nil
}

// newStorage builds the backends for cfg.Driver and the repositories on top.
func newStorage(dir string, cfg StorageConfig, opts []Option) (*Storage, error) {
	s := &Storage{
		root:   dir,
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	backend := func(collection string) record.Backend {
		return record.NewFileBackend(filepath.Join(s.LodgePath(), collection+".yaml"))
	}
	if cfg.Driver == DriverSQLite {
		dbPath := filepath.Join(s.LodgePath(), sqliteFile)
		db, err := record.OpenSQLite(dbPath)
		if err != nil {
			return nil, err
		}
		s.db = db
		backend = func(collection string) record.Backend {
			return record.NewSQLiteBackend(db, dbPath, collection)
		}
	}

	withLogger := record.WithLogger(s.logger)
	s.facilities = repository.NewFacilityRepository(backend(FacilitiesCollection), withLogger)
	s.customers = repository.NewCustomerRepository(backend(CustomersCollection), withLogger)
	s.reservations = repository.NewReservationRepository(backend(ReservationsCollection), withLogger)

	return s, nil
}

// Close releases the database handle of the sqlite driver.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Root returns the root directory containing .lodge/.
func (s *Storage) Root() string {
	return s.root
}

// LodgePath returns the path to the .lodge/ directory.
func (s *Storage) LodgePath() string {
	return filepath.Join(s.root, lodgeDir)
}

// Driver returns the persistence driver in use.
func (s *Storage) Driver() Driver {
	return s.cfg.Driver
}

// Logger returns the logger handed to the collections.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

func (s *Storage) Facilities() *repository.FacilityRepository {
	return s.facilities
}

func (s *Storage) Customers() *repository.CustomerRepository {
	return s.customers
}

func (s *Storage) Reservations() *repository.ReservationRepository {
	return s.reservations
}
