package config

import (
	"os"
	"runtime"

	"golang.org/x/xerrors"

	"xdpwall/constant"
)

const (
	// ModeXDP classifies in the kernel and enforces the decision.
	ModeXDP = "xdp"
	// ModeSocket classifies a copy of the traffic in userspace and only observes.
	ModeSocket = "socket"
)

func IsDebug() bool {
	return os.Getenv("ENV") == "debug"
}

func IsTest() bool {
	return os.Getenv("ENV") == "test"
}

// Config is the runtime configuration assembled from the command line.
type Config struct {
	Interface  string
	Mode       string
	XDPMode    string
	Workers    int
	PolicyPath string
	APIAddr    string
}

// Default returns the configuration used when no flag is given.
func Default() *Config {
	return &Config{
		Interface:  constant.NicName,
		Mode:       ModeXDP,
		XDPMode:    "skb",
		Workers:    runtime.NumCPU(),
		PolicyPath: constant.PolicyPath,
		APIAddr:    constant.APIAddr,
	}
}

func (c *Config) Validate() error {
	if c.Interface == "" {
		return xerrors.New("interface name must not be empty")
	}
	switch c.Mode {
	case ModeXDP, ModeSocket:
	default:
		return xerrors.Errorf("unknown mode: %s", c.Mode)
	}
	switch c.XDPMode {
	case "skb", "native":
	default:
		return xerrors.Errorf("unknown xdp mode: %s", c.XDPMode)
	}
	if c.Workers < 1 {
		return xerrors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}
