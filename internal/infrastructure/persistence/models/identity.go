package models

import (
	"time"

	"github.com/storefront/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	SoftDeleteModel
	Email          string            `gorm:"type:varchar(255);not null"`
	FirstName      string            `gorm:"type:varchar(100)"`
	LastName       string            `gorm:"type:varchar(100)"`
	PasswordHash   string            `gorm:"type:varchar(255);not null"`
	Role           identity.UserRole `gorm:"type:varchar(20);not null;default:'member'"`
	APIToken       string            `gorm:"type:varchar(255)"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	Metadata       JSONMap `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainSoftDelete(),
		Email:             m.Email,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		APIToken:          m.APIToken,
		LastLoginAt:       m.LastLoginAt,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
		Metadata:          MetadataToDomain(m.Metadata),
	}
}

// UserModelFromDomain creates a persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		PasswordHash:   u.PasswordHash,
		Role:           u.Role,
		APIToken:       u.APIToken,
		LastLoginAt:    u.LastLoginAt,
		FailedAttempts: u.FailedAttempts,
		LockedUntil:    u.LockedUntil,
		Metadata:       MetadataToModel(u.Metadata),
	}
	m.FromDomainSoftDelete(u.BaseAggregateRoot)
	return m
}

// InviteModel is the persistence model for admin invites
type InviteModel struct {
	AggregateModel
	UserEmail string            `gorm:"type:varchar(255);not null;index"`
	Role      identity.UserRole `gorm:"type:varchar(20);not null;default:'member'"`
	Token     string            `gorm:"type:text;not null"`
	Accepted  bool              `gorm:"not null;default:false"`
	ExpiresAt time.Time         `gorm:"not null"`
	Metadata  JSONMap           `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (InviteModel) TableName() string {
	return "invites"
}

// ToDomain converts the model to a domain Invite
func (m *InviteModel) ToDomain() *identity.Invite {
	return &identity.Invite{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserEmail:         m.UserEmail,
		Role:              m.Role,
		Token:             m.Token,
		Accepted:          m.Accepted,
		ExpiresAt:         m.ExpiresAt,
		Metadata:          MetadataToDomain(m.Metadata),
	}
}

// InviteModelFromDomain converts a domain Invite to its model
func InviteModelFromDomain(i *identity.Invite) *InviteModel {
	m := &InviteModel{
		UserEmail: i.UserEmail,
		Role:      i.Role,
		Token:     i.Token,
		Accepted:  i.Accepted,
		ExpiresAt: i.ExpiresAt,
		Metadata:  MetadataToModel(i.Metadata),
	}
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	return m
}
