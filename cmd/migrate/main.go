package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [up|drop|seed]")
		os.Exit(1)
	}
	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

// createTables creates the entries table. The unique constraint on
// receipt_number backs the atomic duplicate suppression in the ledger.
func createTables(ctx context.Context, conn *pgx.Conn) error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id              BIGSERIAL PRIMARY KEY,
		submitted_at    TIMESTAMPTZ NOT NULL,
		segment         TEXT NOT NULL,
		full_name       TEXT NOT NULL,
		owner_id        TEXT NOT NULL,
		phone           TEXT NOT NULL DEFAULT '',
		email           TEXT NOT NULL DEFAULT '',
		receipt_number  TEXT NOT NULL UNIQUE,
		receipt_date    DATE NOT NULL,
		image_url       TEXT NOT NULL DEFAULT '',
		answer          TEXT NOT NULL,
		status          TEXT NOT NULL DEFAULT 'Submitted',
		is_winner       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_entries_owner_id ON entries(owner_id);
	CREATE INDEX IF NOT EXISTS idx_entries_is_winner ON entries(is_winner) WHERE is_winner;
	`

	_, err := conn.Exec(ctx, schema)
	return err
}

// dropTables drops the entries table
func dropTables(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `DROP TABLE IF EXISTS entries CASCADE`)
	return err
}

// seedData inserts a few sample entries for local development
func seedData(ctx context.Context, conn *pgx.Conn) error {
	seed := `
	INSERT INTO entries (
		submitted_at, segment, full_name, owner_id, phone, email,
		receipt_number, receipt_date, image_url, answer, status, is_winner
	) VALUES
		(NOW(), 'campaign-2026', 'Aisyah Rahman', '990101105678', '+60122223333',
		 'aisyah@example.com', 'SEED-0001', '2026-01-05', '', 'Answer B', 'Verified', TRUE),
		(NOW(), 'campaign-2026', 'Mei Ling Tan', '880202085432', '+60133334444',
		 'meiling@example.com', 'SEED-0002', '2026-01-06', '', 'Answer A', 'Submitted', FALSE)
	ON CONFLICT (receipt_number) DO NOTHING
	`

	_, err := conn.Exec(ctx, seed)
	return err
}
