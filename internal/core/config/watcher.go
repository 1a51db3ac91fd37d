package config

import (
	"github.com/rs/zerolog"

	"github.com/colonyops/codenote/pkg/fswatch"
)

// Watcher reloads the configuration file when it changes on disk and hands
// each successfully loaded config to the provider and onReload. Invalid files
// are logged and the previous configuration stays active.
type Watcher struct {
	fw *fswatch.FileWatcher
}

// Watch starts watching configPath.
func Watch(configPath string, provider *Provider, logger zerolog.Logger, onReload func(*Config)) (*Watcher, error) {
	reload := func() {
		dataDir := provider.Current().DataDir

		cfg, err := Load(configPath, dataDir)
		if err != nil {
			logger.Warn().Err(err).Str("path", configPath).Msg("config reload failed, keeping previous config")
			return
		}

		provider.Set(cfg)
		logger.Debug().Str("path", configPath).Msg("config reloaded")

		if onReload != nil {
			onReload(cfg)
		}
	}

	fw, err := fswatch.New(configPath, reload, fswatch.WithErrorHandler(func(err error) {
		logger.Warn().Err(err).Msg("config watcher error")
	}))
	if err != nil {
		return nil, err
	}

	return &Watcher{fw: fw}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
