package event

// Type identifies the type of domain event
type Type string

const (
	TypeSnapshotUpdated Type = "snapshot.updated"
	TypeDocumentReset   Type = "document.reset"
	TypeSnapshotAdopted Type = "snapshot.adopted"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// HistoryMode tells subscribers how a change should land in navigation history
type HistoryMode string

const (
	// HistoryReplace overwrites the current history entry (field edits, step changes)
	HistoryReplace HistoryMode = "replace"
	// HistoryPush adds a new history entry (reset)
	HistoryPush HistoryMode = "push"
	// HistoryNone leaves history alone (state adopted from history itself)
	HistoryNone HistoryMode = "none"
)

// HistoryModeFor returns the history mode a given event type implies
func HistoryModeFor(t Type) HistoryMode {
	switch t {
	case TypeDocumentReset:
		return HistoryPush
	case TypeSnapshotAdopted:
		return HistoryNone
	default:
		return HistoryReplace
	}
}
