package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Bound to the root command's persistent flags.
var (
	Network           string
	Nodes             []string
	UniversalResolver string
	TextResolver      string
	Timeout           time.Duration
	JSONOutput        bool
	Verbosity         int
	EnvFile           string
)

// resolve / verify
var (
	VerifyAll     bool
	Interactive   bool
	RawMessage    bool
	DocumentFile  string
	DocumentURL   string
	AssociationID int64
	Signer        string
)

// serve
var (
	ListenAddr string
)

const (
	DefaultEnvFile    = ".env"
	DefaultListenAddr = "127.0.0.1:8645"
	ListenAddrVar     = "ASSOC_LISTEN_ADDR"
)

// LoadEnv loads path into the process environment without overriding
// variables that are already set. A missing default file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && path == DefaultEnvFile {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

// ListenAddress is --listen, then ASSOC_LISTEN_ADDR, then the default.
func ListenAddress() string {
	if ListenAddr != "" {
		return ListenAddr
	}
	if v := strings.TrimSpace(os.Getenv(ListenAddrVar)); v != "" {
		return v
	}
	return DefaultListenAddr
}
