package store

// Entry is one persisted row of the observed table. Section and Position
// together define the row's index path in the sectioned mirror.
type Entry struct {
	// ID is the row's immutable identifier (UUID).
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Section is the zero-based section index the row belongs to.
	Section int `gorm:"column:section;index:idx_entries_placement,priority:1" json:"section"`
	// Position is the zero-based position of the row within its section.
	Position int `gorm:"column:position;index:idx_entries_placement,priority:2" json:"position"`
	// Payload is the displayed item value.
	Payload string `gorm:"column:payload" json:"payload"`
}

// TableName pins the table name used by the controller's queries.
func (Entry) TableName() string {
	return "entries"
}
