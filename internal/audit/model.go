package audit

import "time"

// Action is what happened to a record
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Entry is one row of the audit trail. Entries are append-only and carry
// no foreign keys so they outlive the records they describe.
type Entry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EntityTable string    `gorm:"column:table_name;not null" json:"table_name"`
	RecordID    int64     `gorm:"column:record_id;not null" json:"record_id"`
	ClientID    *int64    `gorm:"column:client_id" json:"client_id,omitempty"`
	Action      Action    `gorm:"not null" json:"action"`
	FieldName   string    `gorm:"column:field_name" json:"field_name,omitempty"`
	OldValue    string    `gorm:"column:old_value" json:"old_value,omitempty"`
	NewValue    string    `gorm:"column:new_value" json:"new_value,omitempty"`
	UILocation  string    `gorm:"column:ui_location" json:"ui_location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for audit entries
func (Entry) TableName() string {
	return "audit_log"
}

// FilterOptions narrows audit queries
type FilterOptions struct {
	TableName string
	RecordID  int64
	ClientID  *int64
	Limit     int
	Offset    int
}
