package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"sslmode"`
	SQLitePath string `yaml:"sqlite_path"`
}

func (c Config) dsn() string {
	ssl := c.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Name, ssl)
}

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects with the configured driver and migrates the schema.
func Open(cfg Config, logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "DBService", "driver", cfg.Driver)

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gcfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case DriverPostgres, "":
		db, err = gorm.Open(postgres.Open(cfg.dsn()), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
	case DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = "curriculum.db"
		}
		db, err = gorm.Open(sqlite.Open(path), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	if err := AutoMigrateAll(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	serviceLog.Info("Database ready")
	return &Service{db: db, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
