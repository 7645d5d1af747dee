// Package query provides the query engine over the two compatibility
// datasets. It cross-references BCD paths with web features and produces the
// result records rendered by the MCP tools and the CLI.
package query

import (
	"log/slog"
	"sync"

	"webcompat/internal/bcd"
	"webcompat/internal/config"
	"webcompat/internal/webfeatures"
)

// Pagination bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// DesktopBrowsers is the default browser filter for compatibility lookups.
var DesktopBrowsers = []string{"chrome", "edge", "firefox", "safari"}

// BaselineBrowsers is the core browser set Baseline status is computed over.
var BaselineBrowsers = []string{
	"chrome",
	"chrome_android",
	"edge",
	"firefox",
	"firefox_android",
	"safari",
	"safari_ios",
}

// Engine answers compatibility queries. It is safe for concurrent use.
type Engine struct {
	compat   *bcd.Data
	features *webfeatures.Data
	logger   *slog.Logger

	defaultBrowsers []string
	defaultLimit    int
	maxLimit        int

	browsersOnce sync.Once
	browsers     []BrowserSummary
}

// NewEngine creates a query engine over already decoded datasets.
// cfg may be nil, in which case built-in defaults apply.
func NewEngine(compat *bcd.Data, features *webfeatures.Data, cfg *config.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	engine := &Engine{
		compat:          compat,
		features:        features,
		logger:          logger,
		defaultBrowsers: DesktopBrowsers,
		defaultLimit:    DefaultLimit,
		maxLimit:        MaxLimit,
	}

	if cfg != nil {
		if len(cfg.Query.DefaultBrowsers) > 0 {
			engine.defaultBrowsers = cfg.Query.DefaultBrowsers
		}
		if cfg.Query.MaxLimit > 0 {
			engine.maxLimit = cfg.Query.MaxLimit
		}
		if cfg.Query.DefaultLimit > 0 && cfg.Query.DefaultLimit <= engine.maxLimit {
			engine.defaultLimit = cfg.Query.DefaultLimit
		}
	}

	return engine
}

// BCD returns the compatibility dataset.
func (e *Engine) BCD() *bcd.Data {
	return e.compat
}

// WebFeatures returns the web-features dataset.
func (e *Engine) WebFeatures() *webfeatures.Data {
	return e.features
}

// DefaultBrowsers returns the browser filter used when none is given.
func (e *Engine) DefaultBrowsers() []string {
	return e.defaultBrowsers
}

// Limits returns the default and maximum page sizes.
func (e *Engine) Limits() (defaultLimit, maxLimit int) {
	return e.defaultLimit, e.maxLimit
}

// Categories returns the fixed list of BCD categories.
func (e *Engine) Categories() []string {
	return bcd.Categories
}

// Groups returns the web-feature groups in document order.
func (e *Engine) Groups() []webfeatures.Group {
	return e.features.Groups()
}
