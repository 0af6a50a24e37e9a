// Maintenance CLI for operators. The only subcommand today backs up and
// hard-deletes a set of users, used when purging demo cohorts.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/starpathlabs/constellation-backend/internal/data/db"
	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	"github.com/starpathlabs/constellation-backend/internal/platform/envutil"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"github.com/starpathlabs/constellation-backend/internal/reset"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "constellation-admin",
		Short: "Operational maintenance commands for the constellation backend",
	}
	rootCmd.AddCommand(backupAndDeleteUsersCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func backupAndDeleteUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup-and-delete-users",
		Short: "Write a JSON backup of each user's data, then hard-delete the users",
		Long: `Reads DATABASE_URL and USER_IDS (comma-separated UUIDs) from the
environment. Every user's rows across all workshop tables are written to a
backup file (RESET_BACKUP_DIR, default the system temp dir) before any
delete runs. Fails without deleting if any backup cannot be written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupAndDelete(cmd.Context())
		},
	}
}

func runBackupAndDelete(ctx context.Context) error {
	if strings.TrimSpace(os.Getenv("DATABASE_URL")) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	rawIDs := strings.TrimSpace(os.Getenv("USER_IDS"))
	if rawIDs == "" {
		return fmt.Errorf("USER_IDS is required (comma-separated UUIDs)")
	}
	var userIDs []uuid.UUID
	for _, part := range strings.Split(rawIDs, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", part, err)
		}
		userIDs = append(userIDs, id)
	}

	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	thePG := postgresService.DB()
	userRepo := repos.NewUserRepo(thePG, log)

	users, err := userRepo.GetByIDs(ctx, nil, userIDs)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	if len(users) != len(userIDs) {
		return fmt.Errorf("expected %d users, found %d", len(userIDs), len(users))
	}

	// Backups first, all of them. A failed backup aborts before any delete.
	paths := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		snap, err := reset.CollectSnapshot(ctx, thePG, u)
		if err != nil {
			return fmt.Errorf("collect backup for %s: %w", u.ID, err)
		}
		path, err := reset.WriteSnapshot(snap)
		if err != nil {
			return fmt.Errorf("write backup for %s: %w", u.ID, err)
		}
		paths[u.ID] = path
		log.Info("backup written", "user_id", u.ID.String(), "path", path)
	}

	for _, u := range users {
		if err := reset.PurgeUser(ctx, thePG, u, log); err != nil {
			return fmt.Errorf("delete user %s: %w", u.ID, err)
		}
		log.Info("user deleted", "user_id", u.ID.String(), "backup", paths[u.ID])
	}

	fmt.Printf("backed up and deleted %d users\n", len(users))
	return nil
}
