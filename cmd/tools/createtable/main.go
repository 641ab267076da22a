package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get DB: %v", err)
	}

	sql := `
	CREATE TABLE IF NOT EXISTS users (
	  id CHAR(36) NOT NULL,
	  name VARCHAR(120) NOT NULL,
	  email VARCHAR(255) NOT NULL,
	  password_hash VARBINARY(72) NOT NULL,
	  bank_code VARCHAR(10) NULL,
	  account_number VARCHAR(20) NULL,
	  account_name VARCHAR(255) NULL,
	  recipient_code VARCHAR(64) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS sessions (
	  id CHAR(36) NOT NULL,
	  user_id CHAR(36) NOT NULL,
	  expires_at DATETIME(3) NOT NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  KEY ix_sessions_user_id (user_id),
	  CONSTRAINT fk_sessions_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS events (
	  id CHAR(36) NOT NULL,
	  host_id CHAR(36) NOT NULL,
	  title VARCHAR(255) NOT NULL,
	  slug VARCHAR(255) NOT NULL,
	  description TEXT NULL,
	  cover_image VARCHAR(512) NULL,
	  starts_at DATETIME(3) NULL,
	  ends_at DATETIME(3) NULL,
	  is_private TINYINT(1) NOT NULL DEFAULT 0,
	  chip_in_enabled TINYINT(1) NOT NULL DEFAULT 0,
	  chip_in_target DECIMAL(12,2) NOT NULL DEFAULT 0,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_events_slug (slug),
	  KEY ix_events_host_id (host_id),
	  CONSTRAINT fk_events_host FOREIGN KEY (host_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS donations (
	  id CHAR(36) NOT NULL,
	  event_id CHAR(36) NOT NULL,
	  user_id CHAR(36) NOT NULL,
	  payment_reference VARCHAR(64) NULL,
	  amount DECIMAL(12,2) NOT NULL,
	  fee DECIMAL(12,2) NOT NULL,
	  currency CHAR(3) NOT NULL DEFAULT 'NGN',
	  status VARCHAR(16) NOT NULL DEFAULT 'pending',
	  payout_status VARCHAR(16) NOT NULL DEFAULT 'pending',
	  is_payout_eligible TINYINT(1) NOT NULL DEFAULT 0,
	  settled_at DATETIME(3) NULL,
	  transaction_id VARCHAR(64) NULL,
	  gateway VARCHAR(32) NULL,
	  gateway_response VARCHAR(255) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_donations_payment_reference (payment_reference),
	  KEY ix_donations_event_id (event_id),
	  KEY ix_donations_user_id (user_id),
	  CONSTRAINT fk_donations_event FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS gateway_events (
	  id CHAR(36) NOT NULL,
	  gateway VARCHAR(32) NOT NULL,
	  event_type VARCHAR(64) NOT NULL,
	  reference VARCHAR(64) NOT NULL,
	  payload JSON NOT NULL,
	  received_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  processed_at DATETIME(3) NULL,
	  process_error VARCHAR(255) NULL,
	  PRIMARY KEY (id),
	  KEY ix_gateway_events_reference (reference)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS job_checkpoints (
	  job_name VARCHAR(64) NOT NULL,
	  last_run_at DATETIME(3) NULL,
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (job_name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`

	if _, err := sqlDB.Exec(sql); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	log.Println("✓ users table created successfully")
	log.Println("✓ sessions table created successfully")
	log.Println("✓ events table created successfully")
	log.Println("✓ donations table created successfully")
	log.Println("✓ gateway_events table created successfully")
	log.Println("✓ job_checkpoints table created successfully")
}
