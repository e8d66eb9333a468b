package db

import (
	"fmt"
	"io"
	"strconv"
)

// RunMigrateCommand runs a migrate subcommand (up, down, status, force,
// help) against the database at dbPath.
func RunMigrateCommand(args []string, dbPath string, out io.Writer) error {
	if len(args) < 1 {
		PrintMigrateHelp(out)
		return fmt.Errorf("migrate: missing action")
	}
	action := args[0]
	if action == "help" {
		PrintMigrateHelp(out)
		return nil
	}

	migrations, err := MigrationsFS()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	// The schema is left untouched here so the action decides what runs.
	database, err := OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	switch action {
	case "up":
		if err := database.MigrateUp(migrations); err != nil {
			return err
		}
		fmt.Fprintln(out, "All migrations applied")
	case "down":
		if err := database.MigrateDown(migrations); err != nil {
			return err
		}
		fmt.Fprintln(out, "Rolled back one migration")
	case "status":
		version, dirty, err := database.MigrateVersion(migrations)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "version: %d\ndirty: %t\n", version, dirty)
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("usage: dga-report migrate force <version>")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if err := database.MigrateForce(migrations, v); err != nil {
			return err
		}
		fmt.Fprintf(out, "Forced version to %d\n", v)
	default:
		PrintMigrateHelp(out)
		return fmt.Errorf("unknown migrate action: %s", action)
	}
	return nil
}

// PrintMigrateHelp prints usage for the migrate subcommand.
func PrintMigrateHelp(out io.Writer) {
	fmt.Fprint(out, `Usage: dga-report migrate <action> [args]

Actions:
  up              Apply all pending migrations
  down            Roll back the most recent migration
  status          Show the current schema version
  force <version> Set the recorded version without running migrations
  help            Show this message
`)
}
