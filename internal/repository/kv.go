package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cercosdelsur/storefront-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Well-known record keys. Each key holds one JSON document with the full
// collection, so every write replaces the whole document and either fully
// succeeds or leaves the previous value intact.
const (
	KeyQuotations = "quotations"
	KeyOrders     = "orders"
	KeyProducts   = "products"
	KeyCart       = "cart"
	KeyConfig     = "config"
)

// KVRecord is the single persisted table. Collections are stored as JSON
// documents under fixed keys.
type KVRecord struct {
	Key       string    `gorm:"primaryKey;size:64"`
	Value     []byte    `gorm:"type:blob;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the gorm default
func (KVRecord) TableName() string {
	return "kv_records"
}

// KVStore reads and writes whole JSON documents keyed by name.
type KVStore struct {
	db *gorm.DB
}

// NewKVStore creates a new key-value store
func NewKVStore(db *gorm.DB) *KVStore {
	return &KVStore{db: db}
}

// Get unmarshals the document stored under key into dest. A missing key is
// not an error; dest is left untouched and found is false.
func (s *KVStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	var rec KVRecord
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, domain.NewStorageError(fmt.Sprintf("read %s", key), err)
	}
	if err := json.Unmarshal(rec.Value, dest); err != nil {
		return false, domain.NewStorageError(fmt.Sprintf("decode %s", key), err)
	}
	return true, nil
}

// Put replaces the document stored under key with the JSON encoding of value.
func (s *KVStore) Put(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return domain.NewStorageError(fmt.Sprintf("encode %s", key), err)
	}
	rec := KVRecord{Key: key, Value: raw}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return domain.NewStorageError(fmt.Sprintf("write %s", key), err)
	}
	return nil
}

// Delete removes the document stored under key. Deleting a missing key is a
// no-op.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&KVRecord{}, "key = ?", key).Error
	if err != nil {
		return domain.NewStorageError(fmt.Sprintf("delete %s", key), err)
	}
	return nil
}
