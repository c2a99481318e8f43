package records

import (
	"context"

	"gorm.io/gorm"
)

// Repository defines the data access surface the audit and exchange
// features need. The interactive CRUD screens live in the desktop
// frontend and are not part of this backend.
type Repository interface {
	CreateClient(ctx context.Context, client *Client) error
	GetClient(ctx context.Context, id uint) (*Client, error)
	ListClients(ctx context.Context) ([]Client, error)
	UpdateClient(ctx context.Context, client *Client) error
	DeleteClient(ctx context.Context, id uint) error

	CreateTreatment(ctx context.Context, record *TreatmentRecord) error
	ListTreatments(ctx context.Context) ([]TreatmentRecord, error)
	ListTreatmentsByClient(ctx context.Context, clientID uint) ([]TreatmentRecord, error)

	CreateProductRecord(ctx context.Context, record *ProductRecord) error
	ListProductRecordsByClient(ctx context.Context, clientID uint) ([]ProductRecord, error)

	CreateInventoryItem(ctx context.Context, item *InventoryItem) error
	ListInventory(ctx context.Context) ([]InventoryItem, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed records repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateClient(ctx context.Context, client *Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *gormRepository) GetClient(ctx context.Context, id uint) (*Client, error) {
	var client Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *gormRepository) ListClients(ctx context.Context) ([]Client, error) {
	var clients []Client
	err := r.db.WithContext(ctx).Order("last_name, first_name").Find(&clients).Error
	return clients, err
}

func (r *gormRepository) UpdateClient(ctx context.Context, client *Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *gormRepository) DeleteClient(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Client{}, id).Error
}

func (r *gormRepository) CreateTreatment(ctx context.Context, record *TreatmentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *gormRepository) ListTreatments(ctx context.Context) ([]TreatmentRecord, error) {
	var treatments []TreatmentRecord
	err := r.db.WithContext(ctx).Order("treatment_date DESC").Find(&treatments).Error
	return treatments, err
}

func (r *gormRepository) ListTreatmentsByClient(ctx context.Context, clientID uint) ([]TreatmentRecord, error) {
	var treatments []TreatmentRecord
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("treatment_date DESC").
		Find(&treatments).Error
	return treatments, err
}

func (r *gormRepository) CreateProductRecord(ctx context.Context, record *ProductRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *gormRepository) ListProductRecordsByClient(ctx context.Context, clientID uint) ([]ProductRecord, error) {
	var products []ProductRecord
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("product_date DESC").
		Find(&products).Error
	return products, err
}

func (r *gormRepository) CreateInventoryItem(ctx context.Context, item *InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormRepository) ListInventory(ctx context.Context) ([]InventoryItem, error) {
	var items []InventoryItem
	err := r.db.WithContext(ctx).Order("name").Find(&items).Error
	return items, err
}
