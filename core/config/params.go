package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/psfs/core/i18n"
	"github.com/dmitrymomot/psfs/core/logger"
)

// RequiredKeys must all be set before the application counts as configured.
var RequiredKeys = []string{"default_language", "home_action"}

// Service holds the runtime parameters backed by the YAML parameters file.
// Safe for concurrent use.
type Service struct {
	mu       sync.RWMutex
	path     string
	params   map[string]string
	required []string
	debug    bool
	i18n     *i18n.I18n
	logger   *slog.Logger
}

// Option configures Service.
type Option func(*Service)

// WithRequiredKeys replaces RequiredKeys.
func WithRequiredKeys(keys ...string) Option {
	return func(s *Service) {
		s.required = slices.Clone(keys)
	}
}

// WithI18n sets the translations used by the setup wizard page.
func WithI18n(tr *i18n.I18n) Option {
	return func(s *Service) {
		s.i18n = tr
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New loads the parameters file named by settings. A missing file yields an
// empty, unconfigured service.
func New(settings Settings, opts ...Option) (*Service, error) {
	s := &Service{
		path:     settings.ParamsFile(),
		params:   make(map[string]string),
		required: slices.Clone(RequiredKeys),
		debug:    settings.Debug,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Debug("parameters file not found", logger.Path(s.path))
	case err != nil:
		return nil, errors.Join(ErrReadParams, err)
	default:
		if err := yaml.Unmarshal(raw, &s.params); err != nil {
			return nil, errors.Join(ErrReadParams, err)
		}
		if s.params == nil {
			s.params = make(map[string]string)
		}
	}
	return s, nil
}

// IsConfigured reports whether every required key has a value.
func (s *Service) IsConfigured() bool {
	return len(s.Missing()) == 0
}

// Missing returns the required keys without a value.
func (s *Service) Missing() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var missing []string
	for _, k := range s.required {
		if s.params[k] == "" {
			missing = append(missing, k)
		}
	}
	return missing
}

// DebugMode reports whether debug is on, either from the environment or the
// "debug" parameter.
func (s *Service) DebugMode() bool {
	if s.debug {
		return true
	}
	v, err := strconv.ParseBool(s.Get("debug"))
	return err == nil && v
}

// Get returns the parameter value or "".
func (s *Service) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params[key]
}

// Param returns the parameter value or def when unset.
func (s *Service) Param(key, def string) string {
	if v := s.Get(key); v != "" {
		return v
	}
	return def
}

// Set stores value under key in memory. Call Save to persist.
func (s *Service) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params[key] = value
}

// All returns a copy of every parameter.
func (s *Service) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.params)
}

// Save writes the parameters file atomically.
func (s *Service) Save() error {
	s.mu.RLock()
	raw, err := yaml.Marshal(s.params)
	s.mu.RUnlock()
	if err != nil {
		return errors.Join(ErrWriteParams, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Join(ErrWriteParams, err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.yml")
	if err != nil {
		return errors.Join(ErrWriteParams, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return errors.Join(ErrWriteParams, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(ErrWriteParams, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Join(ErrWriteParams, err)
	}
	s.logger.Info("parameters saved", logger.Path(s.path))
	return nil
}
