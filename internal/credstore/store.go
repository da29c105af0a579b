// Package credstore persists the bearer token and the signed-in user's
// profile between runs. Storage failures never surface as errors: they are
// logged and the value is reported as absent, which sends the user back to
// the login step.
package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/food_client/internal/models"
	"github.com/Skotchmaster/food_client/pkg/db"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

const (
	TokenKey    = "user_token"
	UserInfoKey = "user_info"
)

type Store interface {
	PutToken(ctx context.Context, token string)
	Token(ctx context.Context) (string, bool)
	DeleteToken(ctx context.Context)

	PutUserInfo(ctx context.Context, u models.User)
	UserInfo(ctx context.Context) (*models.User, bool)
	DeleteUserInfo(ctx context.Context)
}

type Entry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;size:64"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Entry) TableName() string {
	return "kv_entries"
}

type GormStore struct {
	DB *gorm.DB
}

// Open opens (or creates) the SQLite file at path and migrates the entry table.
func Open(ctx context.Context, path string) (*GormStore, error) {
	gdb, err := db.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return New(ctx, gdb)
}

func New(ctx context.Context, gdb *gorm.DB) (*GormStore, error) {
	if err := gdb.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate credential store: %w", err)
	}
	return &GormStore{DB: gdb}, nil
}

func (s *GormStore) Close() error {
	return db.Close(s.DB)
}

func (s *GormStore) put(ctx context.Context, key, value string) error {
	e := Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (s *GormStore) get(ctx context.Context, key string) (string, error) {
	var e Entry
	if err := s.DB.WithContext(ctx).Where("entry_key = ?", key).First(&e).Error; err != nil {
		return "", err
	}
	return e.Value, nil
}

func (s *GormStore) delete(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Where("entry_key = ?", key).Delete(&Entry{}).Error
}

func (s *GormStore) PutToken(ctx context.Context, token string) {
	if err := s.put(ctx, TokenKey, token); err != nil {
		logging.FromContext(ctx).Error("credstore_put_token_error", "error", err)
	}
}

func (s *GormStore) Token(ctx context.Context) (string, bool) {
	v, err := s.get(ctx, TokenKey)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logging.FromContext(ctx).Error("credstore_get_token_error", "error", err)
		}
		return "", false
	}
	return v, v != ""
}

func (s *GormStore) DeleteToken(ctx context.Context) {
	if err := s.delete(ctx, TokenKey); err != nil {
		logging.FromContext(ctx).Error("credstore_delete_token_error", "error", err)
	}
}

func (s *GormStore) PutUserInfo(ctx context.Context, u models.User) {
	l := logging.FromContext(ctx)
	data, err := json.Marshal(u)
	if err != nil {
		l.Error("credstore_put_user_info_error", "error", err)
		return
	}
	if err := s.put(ctx, UserInfoKey, string(data)); err != nil {
		l.Error("credstore_put_user_info_error", "error", err)
	}
}

func (s *GormStore) UserInfo(ctx context.Context) (*models.User, bool) {
	l := logging.FromContext(ctx)
	v, err := s.get(ctx, UserInfoKey)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("credstore_get_user_info_error", "error", err)
		}
		return nil, false
	}

	var u models.User
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		l.Error("credstore_get_user_info_error", "reason", "corrupt record", "error", err)
		return nil, false
	}
	return &u, true
}

func (s *GormStore) DeleteUserInfo(ctx context.Context) {
	if err := s.delete(ctx, UserInfoKey); err != nil {
		logging.FromContext(ctx).Error("credstore_delete_user_info_error", "error", err)
	}
}
