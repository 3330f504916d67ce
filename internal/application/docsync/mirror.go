// Package docsync keeps the shareable link and the local backup in step with
// the store, and decides which source a session starts from.
package docsync

import (
	"context"

	"github.com/garyjia/invoice-wizard/internal/application/backup"
	"github.com/garyjia/invoice-wizard/internal/application/port"
	"github.com/garyjia/invoice-wizard/internal/application/sharelink"
	"github.com/garyjia/invoice-wizard/internal/domain/event"
)

// Mirror writes every committed snapshot to navigation history and the backup
type Mirror struct {
	codec   *sharelink.Codec
	history port.History
	backup  backup.Service
	logger  port.Logger
}

// NewMirror creates the store subscriber
func NewMirror(codec *sharelink.Codec, history port.History, backups backup.Service, logger port.Logger) *Mirror {
	if logger == nil {
		logger = port.NopLogger{}
	}
	return &Mirror{codec: codec, history: history, backup: backups, logger: logger}
}

// Handle is a dispatcher.Handler. Resets push a history entry and drop the
// backup; edits replace the current entry; adopted snapshots came from history
// and are only backed up.
func (m *Mirror) Handle(ctx context.Context, evt *event.Event) error {
	switch evt.History {
	case event.HistoryPush:
		m.history.Push(m.codec.Encode(evt.Snapshot))
	case event.HistoryReplace:
		m.history.Replace(m.codec.Encode(evt.Snapshot))
	}

	if evt.Type == event.TypeDocumentReset {
		m.backup.Clear(ctx)
		m.logger.Info("New document started, backup cleared", "event_id", evt.ID)
		return nil
	}

	m.backup.Save(ctx, evt.Snapshot)
	return nil
}
