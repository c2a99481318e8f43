package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/salonkeep/salonkeep/internal/backup"
	"github.com/salonkeep/salonkeep/internal/config"
	"github.com/salonkeep/salonkeep/internal/database"
	"github.com/salonkeep/salonkeep/internal/logger"
	"github.com/salonkeep/salonkeep/migrations"
)

// env bundles the shared dependencies the subcommands need
type env struct {
	cfg           *config.Config
	configService *config.ConfigService
	logger        logger.Logger
	lock          *database.StoreLock
}

var (
	configPath string
	assumeYes  bool
)

func main() {
	root := &cobra.Command{
		Use:           "salonctl",
		Short:         "Maintenance tool for the salon records store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory containing config.yaml")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Bring the store schema up to the latest version",
		RunE:  runMigrate,
	}
	migrateCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask before migrating an existing store")

	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage store snapshots",
	}
	backupCmd.AddCommand(
		&cobra.Command{Use: "create", Short: "Take a snapshot of the store", RunE: runBackupCreate},
		&cobra.Command{Use: "list", Short: "List snapshots, newest first", RunE: runBackupList},
		&cobra.Command{Use: "restore <name>", Short: "Replace the store with a snapshot's copy", Args: cobra.ExactArgs(1), RunE: runBackupRestore},
		&cobra.Command{Use: "prune", Short: "Apply the configured retention policy", RunE: runBackupPrune},
	)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the store's schema version and pending migrations",
		RunE:  runStatus,
	}

	root.AddCommand(migrateCmd, backupCmd, statusCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadEnv() (*env, error) {
	log, err := logger.NewService(&logger.Config{Level: logger.WarnLevel, Format: "text", Output: "stderr"})
	if err != nil {
		return nil, err
	}

	configService := config.NewConfigService(log)
	cfg, err := configService.Load(configPath)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:           cfg,
		configService: configService,
		logger:        log,
		lock:          &database.StoreLock{},
	}, nil
}

func (e *env) backupService() *backup.Service {
	return backup.NewService(e.cfg.Database.Path, e.cfg.Backup.Dir, e.lock, e.logger, backup.SystemClock{}, nil)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	dbService := database.NewDatabaseService(&e.cfg.Database, e.logger)
	db, err := dbService.Connect()
	if err != nil {
		return err
	}
	defer dbService.Close()

	backupService := e.backupService()
	confirm := func() bool {
		if assumeYes {
			return true
		}
		fmt.Print("The database schema needs an update. A backup is taken first. Continue? [y/N] ")
		answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}

	runner := migrations.NewRunner(db, e.lock, e.logger, migrations.All(), func() error {
		_, err := backupService.CreatePreMigration()
		return err
	}, confirm)

	result, err := runner.Run(context.Background())
	if err != nil {
		return err
	}
	if result.Skipped {
		fmt.Println("Migration declined, store unchanged.")
		return nil
	}
	if len(result.Applied) == 0 {
		fmt.Println("Schema is already up to date.")
		return nil
	}
	fmt.Printf("Applied %d migration(s): %s\n", len(result.Applied), strings.Join(result.Applied, ", "))
	return nil
}

func runBackupCreate(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	snapshot, err := e.backupService().Create(backup.ReasonManual)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s (%d bytes)\n", snapshot.Name, snapshot.Size)
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	snapshots, err := e.backupService().List()
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Println("No snapshots found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tREASON\tCREATED\tSIZE")
	for _, snapshot := range snapshots {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			snapshot.Name, snapshot.Reason, snapshot.CreatedAt.Format("2006-01-02 15:04:05"), snapshot.Size)
	}
	return w.Flush()
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	service := e.backupService()
	snapshot, err := service.SnapshotByName(args[0])
	if err != nil {
		return err
	}
	if err := service.Restore(snapshot); err != nil {
		return err
	}
	fmt.Printf("Restored %s. Restart the application to reopen the store.\n", snapshot.Name)
	return nil
}

func runBackupPrune(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	deleted, err := e.backupService().ApplyRetention(backup.PolicyFromConfig(&e.cfg.Backup))
	if err != nil {
		return err
	}
	if len(deleted) == 0 {
		fmt.Println("Nothing to prune.")
		return nil
	}
	for _, snapshot := range deleted {
		fmt.Println("Deleted", snapshot.Name)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	dbService := database.NewDatabaseService(&e.cfg.Database, e.logger)
	db, err := dbService.Connect()
	if err != nil {
		return err
	}
	defer dbService.Close()

	applied, err := migrations.AppliedVersions(db)
	if err != nil {
		return err
	}
	appliedSet := make(map[string]bool, len(applied))
	for _, version := range applied {
		appliedSet[version] = true
	}

	fmt.Println("Store:", e.cfg.Database.Path)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tSTATE\tDESCRIPTION")
	for _, unit := range migrations.All() {
		state := "pending"
		if appliedSet[unit.Version] {
			state = "applied"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", unit.Version, state, unit.Description)
	}
	return w.Flush()
}
