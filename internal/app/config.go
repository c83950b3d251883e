package app

import "fmt"

// Config holds everything an App needs to run.
type Config struct {
	GridPath  string
	CodesPath string
	Executor  string
	BoardURL  string
	Seed      uint64
	OutDir    string
	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it ready for use.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GridPath == "" {
		return nil, fmt.Errorf("a sweep file or directory is required")
	}
	if cfg.CodesPath == "" {
		return nil, fmt.Errorf("a code table file is required")
	}
	switch cfg.Executor {
	case "sim":
	case "board":
		if cfg.BoardURL == "" {
			return nil, fmt.Errorf("the board executor needs a control URL, e.g. ws://rfsoc:8090/fec")
		}
	default:
		return nil, fmt.Errorf("unknown executor %q: must be 'sim' or 'board'", cfg.Executor)
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	return &cfg, nil
}
