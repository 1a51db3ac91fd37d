package config

import "sync"

// Provider holds the live configuration snapshot shared by components that
// must observe reloads.
type Provider struct {
	mu  sync.RWMutex
	cfg *Config
}

// NewProvider creates a provider seeded with cfg.
func NewProvider(cfg *Config) *Provider {
	return &Provider{cfg: cfg}
}

// Current returns the active configuration.
func (p *Provider) Current() *Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

// Set replaces the active configuration.
func (p *Provider) Set(cfg *Config) {
	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()
}
