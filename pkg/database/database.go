package database

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"warehub/pkg/models"
)

// Init connects to PostgreSQL and migrates the schema. Startup retries
// cover the usual case of the database container still coming up.
func Init(dsn string) *gorm.DB {
	var db *gorm.DB
	var err error

	maxRetries := 10
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		log.Printf("Database connection attempt %d/%d failed: %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(5 * time.Second)
		}
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	log.Println("Database connection established successfully")
	return db
}

// Migrate applies the schema for every persisted entity. On Postgres
// it also installs the range-exclusion constraint, so the datastore
// itself rejects two active bookings with overlapping dates for the
// same warehouse no matter which code path writes them.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Warehouse{},
		&models.Booking{},
		&models.Payment{},
	); err != nil {
		return err
	}
	if db.Dialector.Name() == "postgres" {
		return ensureNoOverlapConstraint(db)
	}
	return nil
}

// Inclusive bounds on both sides, active statuses only: a row leaves
// the constraint's index as soon as its booking is cancelled or
// completed. Violations surface as SQLSTATE 23P01.
const noOverlapConstraint = `ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
EXCLUDE USING gist (
	warehouse_uid WITH =,
	tstzrange(start_date, end_date, '[]') WITH &&
) WHERE (status IN ('pending', 'confirmed'))`

func ensureNoOverlapConstraint(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return err
	}
	var existing int64
	err := db.Raw("SELECT count(*) FROM pg_constraint WHERE conname = ?", "bookings_no_overlap").
		Scan(&existing).Error
	if err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}
	return db.Exec(noOverlapConstraint).Error
}
