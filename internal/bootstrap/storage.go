package bootstrap

import (
	"context"
	"fmt"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"resource-board/internal/config"
	mongoClient "resource-board/internal/platform/mongo"
	mysqlClient "resource-board/internal/platform/mysql"
	sqliteClient "resource-board/internal/platform/sqlite"
	"resource-board/internal/repository"
	"resource-board/internal/repository/mongorepo"
)

// Storage is the store pair selected by storage.driver, plus the hooks the
// process needs around it.
type Storage struct {
	Driver    string
	Users     repository.UserStore
	Resources repository.ResourceStore

	migrate func(ctx context.Context) error
	ping    func(ctx context.Context) error
	close   func(ctx context.Context) error
}

func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMySQL:
		db, err := mysqlClient.New(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, err
		}
		return gormStorage(cfg.Storage.Driver, db), nil
	case config.StorageSQLite:
		db, err := sqliteClient.New(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return gormStorage(cfg.Storage.Driver, db), nil
	case config.StorageMongo:
		client, err := mongoClient.New(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		return mongoStorage(client, client.Database(cfg.Mongo.DB)), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func gormStorage(driver string, db *gorm.DB) *Storage {
	return &Storage{
		Driver:    driver,
		Users:     repository.NewUserRepository(db),
		Resources: repository.NewResourceRepository(db),
		migrate: func(context.Context) error {
			return repository.AutoMigrate(db)
		},
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

func mongoStorage(client *mongodriver.Client, db *mongodriver.Database) *Storage {
	return &Storage{
		Driver:    config.StorageMongo,
		Users:     mongorepo.NewUserRepository(db),
		Resources: mongorepo.NewResourceRepository(db),
		migrate: func(ctx context.Context) error {
			return mongorepo.EnsureIndexes(ctx, db)
		},
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: client.Disconnect,
	}
}

// Migrate creates tables or indexes for the selected driver.
func (s *Storage) Migrate(ctx context.Context) error {
	if err := s.migrate(ctx); err != nil {
		return fmt.Errorf("migrate %s storage failed: %w", s.Driver, err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Storage) Close(ctx context.Context) error {
	return s.close(ctx)
}
