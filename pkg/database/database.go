package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects the storage backend. SQLite keeps all state in one local
// file owned by this process; Postgres is used when several tills share data.
type Options struct {
	Driver      string
	SQLitePath  string
	DatabaseURL string
	Host        string
	User        string
	Password    string
	Name        string
	Port        string
	LogLevel    logger.LogLevel
}

func (o Options) postgresDSN() string {
	if o.DatabaseURL != "" {
		return o.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		o.Host, o.User, o.Password, o.Name, o.Port,
	)
}

// Open connects to the configured backend and returns the error to the caller.
func Open(opts Options) (*gorm.DB, error) {
	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  opts.postgresDSN(),
			PreferSimpleProtocol: true, // Disables implicit prepared statements for pooled transaction mode
		})
	case DriverSQLite, "":
		path := opts.SQLitePath
		if path == "" {
			path = "pos.db"
		}
		dialector = sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      newLogger,
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", opts.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.Driver == DriverPostgres {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		// SQLite allows one writer at a time
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// ConnectDB opens the database or exits the process.
func ConnectDB(opts Options) *gorm.DB {
	db, err := Open(opts)
	if err != nil {
		log.Fatal("Failed to connect to database. \n", err)
	}

	log.Println("Database connection established")
	return db
}
