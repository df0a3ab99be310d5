package engine

import (
	"fmt"
	"sync"

	"go-image-compress/internal/config"
	"go-image-compress/internal/logger"

	"github.com/sirupsen/logrus"
)

// Provider resolves the image capability for the process.
// Acquire is memoized: the first call resolves the configured strategy chain
// and every later call (success or failure) returns the cached outcome. A
// failed resolution is never retried within the same process.
type Provider interface {
	Acquire() (Engine, error)

	// Shutdown releases native resources held by a resolved engine
	Shutdown()
}

type strategy struct {
	name  string
	build func() (Engine, error)
}

type chainProvider struct {
	strategies []strategy

	once   sync.Once
	engine Engine
	err    error
}

// NewProvider builds a provider for the configured engine mode. Mode "auto"
// probes the native engine first and falls back to the pure-Go one; "vips"
// and "imaging" pin a single strategy.
func NewProvider(mode string) Provider {
	var strategies []strategy
	switch mode {
	case config.EngineVips:
		strategies = []strategy{{name: "vips", build: newVipsEngine}}
	case config.EngineImaging:
		strategies = []strategy{{name: "imaging", build: newImagingEngine}}
	default:
		strategies = []strategy{
			{name: "vips", build: newVipsEngine},
			{name: "imaging", build: newImagingEngine},
		}
	}
	return &chainProvider{strategies: strategies}
}

func (p *chainProvider) Acquire() (Engine, error) {
	// sync.Once is the shared pending resolution: concurrent callers block
	// here until the first caller finishes, then all see the same outcome.
	p.once.Do(p.resolve)
	return p.engine, p.err
}

func (p *chainProvider) resolve() {
	var lastErr error
	for _, s := range p.strategies {
		eng, err := s.build()
		if err != nil {
			logger.WithError(err).WithField("strategy", s.name).Warn("Image engine strategy failed")
			lastErr = err
			continue
		}
		logger.WithFields(logrus.Fields{
			"strategy": s.name,
			"engine":   eng.Name(),
		}).Info("Image engine resolved")
		p.engine = eng
		return
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no image engine strategies configured")
	}
	p.err = fmt.Errorf("image capability unavailable: %w", lastErr)
	logger.WithError(p.err).Error("All image engine strategies failed")
}

func (p *chainProvider) Shutdown() {
	if p.engine == nil {
		return
	}
	if closer, ok := p.engine.(interface{ Close() }); ok {
		closer.Close()
	}
}
