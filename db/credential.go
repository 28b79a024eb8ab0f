package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultScope is used when no scope is configured.
const DefaultScope = "default"

// Credential is one entry of the scoped credential store.
type Credential struct {
	Scope     string `gorm:"primaryKey"`
	Name      string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

// CredentialRepository is a GORM-backed credential store.
// Use constructor NewCredentialRepository to obtain an instance.
type CredentialRepository struct {
	db    *gorm.DB
	scope string
}

// NewCredentialRepository creates a credential store bound to scope. Accepts *gorm.DB to avoid global access.
func NewCredentialRepository(db *gorm.DB, scope string) *CredentialRepository {
	if scope == "" {
		scope = DefaultScope
	}
	return &CredentialRepository{db: db, scope: scope}
}

func (r *CredentialRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if r.db == nil {
		return "", false, fmt.Errorf("repository not initialized")
	}
	var c Credential
	err := r.db.WithContext(ctx).First(&c, "scope = ? AND name = ?", r.scope, key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return c.Value, true, nil
}

func (r *CredentialRepository) Set(ctx context.Context, key, value string) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	c := Credential{Scope: r.scope, Name: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&c).Error
}

func (r *CredentialRepository) Remove(ctx context.Context, key string) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	return r.db.WithContext(ctx).
		Where("scope = ? AND name = ?", r.scope, key).
		Delete(&Credential{}).Error
}
