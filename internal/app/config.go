package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Paths are definition files, directories or glob patterns.
	Paths []string `validate:"required,min=1,dive,required"`
	// Graphs limits the run to the named trees and state machines. Empty
	// runs all of them.
	Graphs []string `validate:"dive,required"`

	// TickRate is the number of ticks per second.
	TickRate float64 `validate:"gt=0,lte=10000"`
	// MaxTicks stops the run after that many ticks. Zero runs until every
	// graph has finished or the context is cancelled.
	MaxTicks uint64
	// Sessions is the number of independent agents, each with its own
	// blackboards and graph instances.
	Sessions int `validate:"gte=1,lte=4096"`
	// Seed makes random choices reproducible. Zero seeds from the clock.
	Seed uint64

	LogFormat       string `validate:"oneof=text json"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	HealthcheckPort int    `validate:"gte=0,lte=65535"`

	// SnapshotBackend selects where blackboards are restored from and saved
	// to. Empty or "none" disables snapshots.
	SnapshotBackend string `validate:"omitempty,oneof=none memory file sqlite redis badger"`
	// SnapshotDSN is the backend's location: a directory, database file,
	// Redis URL or ":memory:".
	SnapshotDSN string
}

var configValidate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig fills defaults into cfg and validates it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.TickRate == 0 {
		cfg.TickRate = 30
	}
	if cfg.Sessions == 0 {
		cfg.Sessions = 1
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := configValidate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (%v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return nil, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	switch cfg.SnapshotBackend {
	case "file", "sqlite", "badger":
		if cfg.SnapshotDSN == "" {
			return nil, fmt.Errorf("invalid configuration: snapshot backend %q needs a DSN", cfg.SnapshotBackend)
		}
	}
	return &cfg, nil
}
