package records

import "time"

// Client represents one person the salon provides services to. The table
// is created by the initial schema migration, not by auto-migration.
type Client struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	FirstName        string     `gorm:"column:first_name;not null" json:"first_name"`
	LastName         string     `gorm:"column:last_name;not null" json:"last_name"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Address          string     `json:"address,omitempty"`
	DateOfBirth      *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Allergies        string     `json:"allergies,omitempty"`
	Tags             string     `json:"tags,omitempty"`
	PlannedTreatment string     `gorm:"column:planned_treatment" json:"planned_treatment,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName specifies the table name for clients
func (Client) TableName() string {
	return "clients"
}

// TreatmentRecord is one historical treatment note for a client
type TreatmentRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ClientID       uint      `gorm:"column:client_id;not null" json:"client_id"`
	TreatmentDate  time.Time `gorm:"column:treatment_date;not null" json:"treatment_date"`
	TreatmentNotes string    `gorm:"column:treatment_notes;not null" json:"treatment_notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for treatment records
func (TreatmentRecord) TableName() string {
	return "treatment_records"
}

// ProductRecord tracks a product used or recommended for a client. The
// product is free text rather than an inventory reference so history stays
// accurate when the catalog changes.
type ProductRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ClientID    uint      `gorm:"column:client_id;not null" json:"client_id"`
	ProductDate time.Time `gorm:"column:product_date;not null" json:"product_date"`
	ProductText string    `gorm:"column:product_text;not null" json:"product_text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for product records
func (ProductRecord) TableName() string {
	return "product_records"
}

// InventoryItem is one product in the catalog
type InventoryItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Capacity    float64   `gorm:"not null" json:"capacity"`
	Unit        string    `gorm:"not null" json:"unit"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for inventory items
func (InventoryItem) TableName() string {
	return "inventory"
}

// Allowed inventory units, enforced by a CHECK constraint in the schema
const (
	UnitMilliliters = "ml"
	UnitGrams       = "g"
	UnitPieces      = "Pc."
)
