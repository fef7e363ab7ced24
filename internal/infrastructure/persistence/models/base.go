package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToDomainAggregateRoot rebuilds the domain base, without pending events
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
	}
}

// SoftDeleteModel is an aggregate model whose rows are soft deleted.
// GORM scopes every query on it to rows where deleted_at is null.
type SoftDeleteModel struct {
	AggregateModel
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// FromDomainSoftDelete populates the model including the deletion time
func (m *SoftDeleteModel) FromDomainSoftDelete(a shared.BaseAggregateRoot) {
	m.FromDomainAggregateRoot(a)
	if a.DeletedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *a.DeletedAt, Valid: true}
	} else {
		m.DeletedAt = gorm.DeletedAt{}
	}
}

// ToDomainSoftDelete rebuilds the domain base including the deletion time
func (m *SoftDeleteModel) ToDomainSoftDelete() shared.BaseAggregateRoot {
	base := m.ToDomainAggregateRoot()
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		base.DeletedAt = &t
	}
	return base
}

// JSONMap stores free-form metadata in a jsonb column
type JSONMap map[string]any

// Value implements driver.Valuer
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (j *JSONMap) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}
	if len(data) == 0 {
		*j = nil
		return nil
	}
	m := make(map[string]any)
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*j = m
	return nil
}

// MetadataToModel converts domain metadata to the column type
func MetadataToModel(m shared.Metadata) JSONMap {
	if len(m) == 0 {
		return nil
	}
	return JSONMap(m)
}

// MetadataToDomain converts the column type to domain metadata, never nil
func MetadataToDomain(j JSONMap) shared.Metadata {
	if j == nil {
		return shared.Metadata{}
	}
	return shared.Metadata(j)
}

// All returns every persistence model in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&CurrencyModel{},
		&RegionModel{},
		&CountryModel{},
		&StoreModel{},
		&StoreCurrencyModel{},
		&UserModel{},
		&InviteModel{},
		&LocationModel{},
		&FileModel{},
	}
}
