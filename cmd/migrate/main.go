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
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
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
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS votes CASCADE`,
		`DROP TABLE IF EXISTS voters CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		// Emails are stored already normalized (lower-cased, trimmed);
		// the unique index makes one voter per email a storage-level fact.
		`CREATE TABLE IF NOT EXISTS voters (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(email)
		)`,

		// The unique constraint on voter_id is what enforces one vote
		// per voter under concurrent submissions.
		`CREATE TABLE IF NOT EXISTS votes (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			voter_id UUID NOT NULL REFERENCES voters(id),
			country_code VARCHAR(3) NOT NULL,
			created_at TIMESTAMP DEFAULT NOW(),
			CONSTRAINT votes_voter_id_key UNIQUE(voter_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_votes_country_code ON votes(country_code)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_created_at ON votes(created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w\nQuery: %s", err, query)
		}
		fmt.Printf("  Created: %s\n", shorten(query))
	}

	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	query := `
		WITH seeded AS (
			INSERT INTO voters (name, email) VALUES
			('Alice Example', 'alice@example.com'),
			('Bob Example', 'bob@example.com'),
			('Carol Example', 'carol@example.com')
			ON CONFLICT (email) DO NOTHING
			RETURNING id, email
		)
		INSERT INTO votes (voter_id, country_code)
		SELECT id, CASE email
			WHEN 'alice@example.com' THEN 'MEX'
			WHEN 'bob@example.com' THEN 'USA'
			ELSE 'CAN'
		END
		FROM seeded
		ON CONFLICT (voter_id) DO NOTHING
	`

	if _, err := conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to seed votes: %w", err)
	}

	fmt.Println("  Seeded 3 voters with votes")
	return nil
}

func shorten(query string) string {
	if len(query) > 50 {
		return query[:50] + "..."
	}
	return query
}
