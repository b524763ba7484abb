package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the database connections. Mongo is nil when no MONGO_URI is set.
type DB struct {
	Postgres *gorm.DB
	Mongo    *mongo.Client
	mongoDB  string
	log      *slog.Logger
}

// InitDB initializes and returns the database connections
func InitDB(ctx context.Context, cfg DatabaseConfig, log *slog.Logger) (*DB, error) {
	postgresDB, err := initPostgres(cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
	}
	log.Info("connected to PostgreSQL")

	db := &DB{Postgres: postgresDB, mongoDB: cfg.MongoDatabase, log: log}
	if cfg.MongoURI == "" {
		log.Warn("MONGO_URI not set, customer records are kept in memory")
		return db, nil
	}

	mongoClient, err := initMongo(ctx, cfg.MongoURI)
	if err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	log.Info("connected to MongoDB", slog.String("database", cfg.MongoDatabase))
	db.Mongo = mongoClient
	return db, nil
}

// MongoDatabase returns the configured Mongo database, or nil without Mongo.
func (db *DB) MongoDatabase() *mongo.Database {
	if db.Mongo == nil {
		return nil
	}
	return db.Mongo.Database(db.mongoDB)
}

// initPostgres initializes the PostgreSQL database connection using GORM
func initPostgres(connStr string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// initMongo initializes the MongoDB connection
func initMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	if db.Postgres != nil {
		sqlDB, err := db.Postgres.DB()
		if err != nil {
			db.log.Error("get SQL DB from GORM", slog.Any("error", err))
		} else if err := sqlDB.Close(); err != nil {
			db.log.Error("close PostgreSQL connection", slog.Any("error", err))
		} else {
			db.log.Info("PostgreSQL connection closed")
		}
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			db.log.Error("close MongoDB connection", slog.Any("error", err))
		} else {
			db.log.Info("MongoDB connection closed")
		}
	}
}
