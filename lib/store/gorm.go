package store

import (
	"context"
	errs "errors"

	_ "github.com/ncruces/go-sqlite3/embed"
	sqlite "github.com/ncruces/go-sqlite3/gormlite"
	"github.com/oliverisaac/pushdemo/types"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Gorm is a Store backed by a gorm database. Every Put runs as one transaction
// doing an upsert on subscriber_id, and in single mode also drops every other row.
type Gorm struct {
	db   *gorm.DB
	mode Mode
}

// OpenSQLite opens path (":memory:" by default) with the pure-Go sqlite driver.
// The pool is pinned to one connection so an in-memory database is shared by every query.
func OpenSQLite(path string, mode Mode) (*Gorm, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "getting sql handle")
	}
	sqlDB.SetMaxOpenConns(1)

	return NewGorm(db, mode)
}

func NewGorm(db *gorm.DB, mode Mode) (*Gorm, error) {
	if err := db.AutoMigrate(&types.PushSubscription{}); err != nil {
		return nil, errors.Wrap(err, "Failed to migrate")
	}
	return &Gorm{db: db, mode: mode}, nil
}

func (g *Gorm) Put(ctx context.Context, sub types.PushSubscription) error {
	if sub.SubscriberID == "" {
		sub.SubscriberID = types.SubscriberID(sub.Endpoint)
	}
	sub.Model = gorm.Model{}

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if g.mode == Single {
			err := tx.Unscoped().
				Where("subscriber_id <> ?", sub.SubscriberID).
				Delete(&types.PushSubscription{}).Error
			if err != nil {
				return errors.Wrap(err, "clearing previous subscription")
			}
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subscriber_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"endpoint", "p256dh", "auth", "keys", "expiration_time", "updated_at"}),
		}).Create(&sub).Error
	})
	return errors.Wrap(err, "saving subscription")
}

func (g *Gorm) Get(ctx context.Context, subscriberID string) (types.PushSubscription, error) {
	var sub types.PushSubscription
	err := g.db.WithContext(ctx).Where("subscriber_id = ?", subscriberID).First(&sub).Error
	return sub, notFound(err, "finding subscription")
}

func (g *Gorm) Latest(ctx context.Context) (types.PushSubscription, error) {
	var sub types.PushSubscription
	err := g.db.WithContext(ctx).Order("updated_at DESC").Order("id DESC").First(&sub).Error
	return sub, notFound(err, "finding latest subscription")
}

func (g *Gorm) Delete(ctx context.Context, subscriberID string) error {
	err := g.db.WithContext(ctx).Unscoped().
		Where("subscriber_id = ?", subscriberID).
		Delete(&types.PushSubscription{}).Error
	return errors.Wrap(err, "removing subscription")
}

func (g *Gorm) List(ctx context.Context) ([]types.PushSubscription, error) {
	ret := []types.PushSubscription{}
	err := g.db.WithContext(ctx).Order("updated_at DESC").Order("id DESC").Find(&ret).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing subscriptions")
	}
	return ret, nil
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return errors.Wrap(err, "getting sql handle")
	}
	return sqlDB.Close()
}

func notFound(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errs.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, msg)
}
