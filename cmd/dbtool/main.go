// Command dbtool manages the database schema and seeds participants from
// the shell, without going through the HTTP surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"fitsync/config"
	"fitsync/internal/infra/persistence/model"
	"fitsync/internal/infra/persistence/postgres"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.New()
	if err != nil {
		fatal("failed to load config: %v", err)
	}

	db, err := postgres.Open(cfg)
	if err != nil {
		fatal("failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "migrate":
		err = migrate(db)
	case "reset":
		err = reset(db, os.Args[2:])
	case "add-participant":
		err = addParticipant(db, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fatal("%v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: dbtool <command> [flags]

commands:
  migrate                     create or update the schema
  reset -yes                  drop and recreate all tables
  add-participant -id <id> [-name <name>] [-email <email>] [-notes <notes>]`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "dbtool: "+format+"\n", args...)
	os.Exit(1)
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.ParticipantModel{}, &model.CredentialModel{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("schema is up to date")

	return nil
}

func reset(db *gorm.DB, args []string) error {
	flags := flag.NewFlagSet("reset", flag.ExitOnError)
	yes := flags.Bool("yes", false, "confirm dropping all tables")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("reset drops all tables; re-run with -yes to confirm")
	}

	// Credentials reference participants, drop them first.
	if err := db.Migrator().DropTable(&model.CredentialModel{}, &model.ParticipantModel{}); err != nil {
		return fmt.Errorf("drop failed: %w", err)
	}

	fmt.Println("all tables dropped")

	return migrate(db)
}

func addParticipant(db *gorm.DB, args []string) error {
	flags := flag.NewFlagSet("add-participant", flag.ExitOnError)
	id := flags.String("id", "", "participant identifier (required)")
	name := flags.String("name", "", "display name")
	email := flags.String("email", "", "contact email")
	notes := flags.String("notes", "", "free-form notes")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("add-participant requires -id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	participant := &model.ParticipantModel{
		ParticipantID: *id,
		DisplayName:   *name,
		Email:         *email,
		Notes:         *notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.WithContext(ctx).Create(participant).Error; err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}

	fmt.Printf("participant %s created\n", *id)

	return nil
}
