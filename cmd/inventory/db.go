package main

import (
	"github.com/spf13/cobra"

	"inventory-service/internal/adapters/secondary/pgtools"
	"inventory-service/internal/config"
	output "inventory-service/internal/core/ports/output"
	"inventory-service/internal/core/services"
)

var (
	dbContainer  string
	dumpOutput   string
	restoreInput string
	restoreClean bool
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Dump or restore the PostgreSQL database",
	Long: `Dump or restore the database with pg_dump/pg_restore (custom format).

With --container (or DOCKER_CONTAINER) the tools run inside the first
running container whose name matches, via docker exec.`,
}

var dbDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Write a custom-format archive of the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return newBackupService(cfg).DumpToFile(cmd.Context(), dumpOutput)
	},
}

var dbRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the database from a custom-format archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return newBackupService(cfg).RestoreFromFile(cmd.Context(), restoreInput, output.RestoreOptions{Clean: restoreClean})
	},
}

func init() {
	dbCmd.PersistentFlags().StringVar(&dbContainer, "container", "", "run pg tools inside this docker container (default $DOCKER_CONTAINER)")

	dbDumpCmd.Flags().StringVarP(&dumpOutput, "output", "o", "", "archive file to write")
	_ = dbDumpCmd.MarkFlagRequired("output")

	dbRestoreCmd.Flags().StringVarP(&restoreInput, "input", "i", "", "archive file to read")
	dbRestoreCmd.Flags().BoolVar(&restoreClean, "clean", false, "drop database objects before recreating them")
	_ = dbRestoreCmd.MarkFlagRequired("input")

	dbCmd.AddCommand(dbDumpCmd, dbRestoreCmd)
}

func newDumper(cfg *config.Config, container string) output.DatabaseDumper {
	if container == "" {
		container = cfg.Docker.Container
	}
	conn := pgtools.ConnInfo{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Name,
	}
	return pgtools.NewDumper(pgtools.ExecRunner{}, conn, container)
}

func newBackupService(cfg *config.Config) *services.BackupService {
	return services.NewBackupService(newDumper(cfg, dbContainer), cfg.Backup.Dir, cfg.Backup.Retain)
}
