package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"shoeshop/internal/models"

	"gorm.io/gorm"
)

// Storage drivers accepted by Open.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Options selects and configures the storage backend.
type Options struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	DSN           string
	Timeout       time.Duration
}

// Store bundles the three repositories of one backend. It is opened once at
// startup and shared by every handler for the life of the process.
type Store struct {
	Driver   string
	Users    UserRepository
	Products ProductRepository
	Cart     CartRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects the backend named by opts.Driver.
//
// Open always returns a usable Store. When the backend cannot be reached the
// error is returned alongside a Store whose operations fail, so the caller
// can log it and keep serving.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	switch opts.Driver {
	case DriverMongo:
		return openMongo(ctx, opts)
	case DriverPostgres, DriverSQLite:
		db, err := OpenGORM(opts.Driver, opts.DSN)
		if err != nil {
			return NewUnavailableStore(opts.Driver, err), err
		}
		return NewGORMStore(opts.Driver, db), nil
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		err := fmt.Errorf("unknown storage driver %q", opts.Driver)
		return NewUnavailableStore(opts.Driver, err), err
	}
}

func openMongo(ctx context.Context, opts Options) (*Store, error) {
	client, err := ConnectMongo(ctx, opts.MongoURI, opts.Timeout)
	if client == nil {
		return NewUnavailableStore(DriverMongo, err), err
	}

	db := client.Database(opts.MongoDatabase)
	users := NewMongoUserRepository(db)
	if err == nil {
		idxCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
		if idxErr := users.EnsureIndexes(idxCtx); idxErr != nil {
			log.Printf("Warning: %v (retried on first registration)", idxErr)
		}
		cancel()
	}

	store := &Store{
		Driver:   DriverMongo,
		Users:    users,
		Products: NewMongoProductRepository(db),
		Cart:     NewMongoCartRepository(db),
		ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:    client.Disconnect,
	}
	return store, err
}

// NewGORMStore wraps an opened GORM database.
func NewGORMStore(driver string, db *gorm.DB) *Store {
	return &Store{
		Driver:   driver,
		Users:    NewGORMUserRepository(db),
		Products: NewGORMProductRepository(db),
		Cart:     NewGORMCartRepository(db),
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

// NewMemoryStore returns a Store kept entirely in process memory.
func NewMemoryStore() *Store {
	return &Store{
		Driver:   DriverMemory,
		Users:    NewMemoryUserRepository(),
		Products: NewMemoryProductRepository(),
		Cart:     NewMemoryCartRepository(),
	}
}

// NewUnavailableStore returns a Store whose every operation fails with cause.
func NewUnavailableStore(driver string, cause error) *Store {
	err := fmt.Errorf("storage unavailable: %w", cause)
	return &Store{
		Driver:   driver,
		Users:    unavailableUsers{err},
		Products: unavailableProducts{err},
		Cart:     unavailableCart{err},
		ping:     func(context.Context) error { return err },
	}
}

type unavailableUsers struct{ err error }

func (u unavailableUsers) Create(context.Context, *models.User) error { return u.err }

func (u unavailableUsers) GetByUsernameOrEmail(context.Context, string) (*models.User, error) {
	return nil, u.err
}

func (u unavailableUsers) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, u.err
}

type unavailableProducts struct{ err error }

func (u unavailableProducts) GetAll(context.Context) ([]models.Product, error) { return nil, u.err }

func (u unavailableProducts) Create(context.Context, *models.Product) error { return u.err }

type unavailableCart struct{ err error }

func (u unavailableCart) GetAll(context.Context) ([]models.CartItem, error) { return nil, u.err }

func (u unavailableCart) Create(context.Context, *models.CartItem) error { return u.err }

func (u unavailableCart) DeleteFirst(context.Context, string) error { return u.err }

func (u unavailableCart) UpdateQuantity(context.Context, string, float64) (*models.CartItem, error) {
	return nil, u.err
}
