package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/lumonlabs/refinery/internal/adapters/render/board"
)

// Settings is the resolved server configuration shared by every session.
type Settings struct {
	ListenAddr  string
	HostKeyPath string
	MetricsAddr string

	MaxSessions int
	Containers  int
	Capacity    int
	BatchSize   int
	Tick        time.Duration

	Theme board.Theme
}

// DefaultSettings mirrors the canonical deployment: five bins of a hundred
// units, five-unit batches, ten frames a second.
func DefaultSettings() Settings {
	return Settings{
		ListenAddr:  ":2222",
		MetricsAddr: ":9090",
		MaxSessions: 32,
		Containers:  5,
		Capacity:    100,
		BatchSize:   5,
		Tick:        100 * time.Millisecond,
		Theme:       board.DefaultTheme(),
	}
}

func (s Settings) Validate() error {
	var errs []error
	if s.ListenAddr == "" {
		errs = append(errs, errors.New("listen address must not be empty"))
	}
	if s.MaxSessions < 1 {
		errs = append(errs, fmt.Errorf("max sessions must be positive, got %d", s.MaxSessions))
	}
	if s.Containers < 1 || s.Containers > 9 {
		errs = append(errs, fmt.Errorf("containers must be within 1..9, got %d", s.Containers))
	}
	if s.Capacity < 1 {
		errs = append(errs, fmt.Errorf("capacity must be positive, got %d", s.Capacity))
	}
	if s.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("batch size must be positive, got %d", s.BatchSize))
	}
	if s.Tick < 10*time.Millisecond {
		errs = append(errs, fmt.Errorf("tick interval must be at least 10ms, got %s", s.Tick))
	}
	return errors.Join(errs...)
}
