package controllerimpl

import (
	"strings"
	"sync"

	"github.com/orgball2608/tiktok-downloader/internal/controller"
	"github.com/orgball2608/tiktok-downloader/internal/repositories/resolution"
	"github.com/orgball2608/tiktok-downloader/internal/tiklydown"
	"github.com/orgball2608/tiktok-downloader/pkg/config"
	"github.com/orgball2608/tiktok-downloader/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Resolver tiklydown.Client
	History  resolution.Repository
	Config   *config.Config
	Logger   logger.Logger
}

type ControllerImpl struct {
	key      string
	resolver tiklydown.Client
	history  resolution.Repository
	validate bool
	domains  []string
	logger   logger.Logger

	mu    sync.Mutex
	seq   uint64
	state controller.State
}

// New builds the controller owned by one session.
func New(sessionKey string, opts Opts) *ControllerImpl {
	history := opts.History
	if history == nil {
		history = resolution.Nop{}
	}
	return &ControllerImpl{
		key:      sessionKey,
		resolver: opts.Resolver,
		history:  history,
		validate: opts.Config.Resolver.ValidateDomain,
		domains:  opts.Config.Resolver.Domains,
		logger:   opts.Logger.WithComponent("Controller"),
	}
}

// NewFactory is the fx constructor presenters use to get per-session controllers.
func NewFactory(opts Opts) controller.Factory {
	return func(sessionKey string) controller.Controller {
		return New(sessionKey, opts)
	}
}

var _ controller.Controller = (*ControllerImpl)(nil)

func (c *ControllerImpl) State() controller.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// acceptsURL reports whether input names one of the configured platform domains.
func (c *ControllerImpl) acceptsURL(input string) bool {
	if input == "" {
		return false
	}
	if !c.validate {
		return true
	}
	lower := strings.ToLower(input)
	for _, d := range c.domains {
		if d != "" && strings.Contains(lower, d) {
			return true
		}
	}
	return false
}
