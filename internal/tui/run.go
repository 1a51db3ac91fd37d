package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/codenote/internal/core/eventbus"
	"github.com/colonyops/codenote/internal/core/notify"
)

// OpenDocuments loads each path as an absolute-path document.
func OpenDocuments(paths []string) ([]*Document, error) {
	docs := make([]*Document, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		d, err := LoadDocument(abs)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// Run starts the terminal editor and blocks until the user quits or ctx is
// cancelled. Pending prompts are abandoned when it returns.
func (m *Model) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.ctx = ctx

	if m.bus != nil {
		unsub := m.bus.SubscribeNotificationPublished(func(p eventbus.NotificationPublishedPayload) {
			m.Notify(notify.Notification{Level: p.Level, Message: p.Message})
		})
		defer unsub()

		m.bus.PublishTuiStarted(eventbus.TUIStartedPayload{})
		defer m.bus.PublishTuiStopped(eventbus.TUIStoppedPayload{})
	}

	prog := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
