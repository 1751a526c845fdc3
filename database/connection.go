package database

import (
	"context"
	"fmt"
	"time"

	"complaint-tracker-backend/app/model"
	"complaint-tracker-backend/app/repository"
	"complaint-tracker-backend/config"
	"complaint-tracker-backend/logging"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database menampung semua koneksi penyimpanan.
// Mongo dan Redis boleh nil bila tidak dikonfigurasi.
type Database struct {
	Postgres *gorm.DB
	Mongo    *mongo.Database
	Redis    *redis.Client

	mongoClient *mongo.Client
}

// InitDB membuka koneksi PostgreSQL (wajib), MongoDB dan Redis (opsional).
func InitDB(ctx context.Context, cfg *config.Config) (*Database, error) {
	// 1. PostgreSQL
	pgDB, err := gorm.Open(postgres.Open(cfg.Postgres.DSN()), &gorm.Config{
		// gorm.ErrDuplicatedKey dipakai repository untuk mendeteksi email/feedback ganda
		TranslateError:         true,
		// transaksi eksplisit hanya di repository (reopen, delete)
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("gagal koneksi ke postgres: %w", err)
	}
	db := &Database{Postgres: pgDB}

	// 2. MongoDB (timeline complaint)
	if cfg.Mongo.URI != "" {
		mctx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
		defer cancel()

		client, err := mongo.Connect(mctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			db.Close(ctx)
			return nil, fmt.Errorf("gagal koneksi ke mongo: %w", err)
		}
		db.mongoClient = client
		if err := client.Ping(mctx, nil); err != nil {
			db.Close(ctx)
			return nil, fmt.Errorf("gagal ping mongo: %w", err)
		}
		db.Mongo = client.Database(cfg.Mongo.Database)
		if err := repository.EnsureEventIndexes(mctx, db.Mongo); err != nil {
			logging.Warn().Err(err).Msg("[DB] Gagal membuat index complaint_events")
		}
	} else {
		logging.Warn().Msg("[DB] MONGO_URI kosong, timeline complaint dinonaktifkan")
	}

	// 3. Redis (blocklist token + event pub/sub)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(rctx).Err(); err != nil {
			_ = rdb.Close()
			db.Close(ctx)
			return nil, fmt.Errorf("gagal ping redis: %w", err)
		}
		db.Redis = rdb
	} else {
		logging.Warn().Msg("[DB] REDIS_ADDR kosong, logout tidak mencabut access token")
	}

	logging.Info().Bool("mongo", db.Mongo != nil).Bool("redis", db.Redis != nil).Msg("[DB] Koneksi database siap")
	return db, nil
}

// Migrate menjalankan AutoMigrate untuk tabel PostgreSQL.
func Migrate(db *gorm.DB) error {
	logging.Info().Msg("[DB] Menjalankan migrasi database PostgreSQL...")
	if err := db.AutoMigrate(&model.User{}, &model.Complaint{}, &model.Feedback{}); err != nil {
		return fmt.Errorf("gagal migrasi database: %w", err)
	}
	return nil
}

// HealthChecks dipakai endpoint /healthz.
func (d *Database) HealthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := d.Postgres.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if d.mongoClient != nil {
		checks["mongo"] = func(ctx context.Context) error { return d.mongoClient.Ping(ctx, nil) }
	}
	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return d.Redis.Ping(ctx).Err() }
	}
	return checks
}

// Close menutup semua koneksi; error hanya di-log.
func (d *Database) Close(ctx context.Context) {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			logging.Warn().Err(err).Msg("[DB] Gagal menutup redis")
		}
	}
	if d.mongoClient != nil {
		if err := d.mongoClient.Disconnect(ctx); err != nil {
			logging.Warn().Err(err).Msg("[DB] Gagal menutup mongo")
		}
	}
	if d.Postgres != nil {
		if sqlDB, err := d.Postgres.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
