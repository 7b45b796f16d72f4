package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"view-sync/core/config"
	"view-sync/core/database"
	"view-sync/core/logger"
	"view-sync/core/storage"
	"view-sync/feature/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// snapshotCmd is the parent command for all snapshot operations.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage persisted model snapshots",
	Long: `Snapshots capture the observed model as a JSON object in the
configured bucket, so a surface can be re-rendered without the database.`,
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Export the observed store to a named snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotExport,
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import <name>",
	Short: "Load a named snapshot and print its model",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotImport,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotList,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotDelete,
}

func init() {
	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotImportCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
	RootCmd.AddCommand(snapshotCmd)
}

// newSnapshotStore loads config and builds the snapshot store plus logger.
func newSnapshotStore() (*storage.SnapshotStore, *config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to storage: %w", err)
	}

	return storage.NewSnapshotStore(client, cfg.Storage, l), cfg, l, nil
}

func runSnapshotExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	snapshots, cfg, l, err := newSnapshotStore()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	ctrl := store.NewController(db, l)
	if err := ctrl.Fetch(ctx); err != nil {
		return err
	}

	if err := snapshots.EnsureBucket(ctx); err != nil {
		return err
	}
	if err := snapshots.Save(ctx, args[0], ctrl.Model()); err != nil {
		return err
	}

	l.Info("Exported snapshot",
		zap.String("name", args[0]),
		zap.Int("sections", ctrl.NumberOfSections()))
	return nil
}

func runSnapshotImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	snapshots, _, l, err := newSnapshotStore()
	if err != nil {
		return err
	}

	model, err := snapshots.Load(ctx, args[0])
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(model.Sections(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render model: %w", err)
	}
	fmt.Println(string(out))

	l.Info("Imported snapshot",
		zap.String("name", args[0]),
		zap.Int("sections", model.NumberOfSections()))
	return nil
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	snapshots, _, _, err := newSnapshotStore()
	if err != nil {
		return err
	}

	names, err := snapshots.List(context.Background())
	if err != nil {
		return err
	}

	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	snapshots, _, _, err := newSnapshotStore()
	if err != nil {
		return err
	}

	return snapshots.Delete(context.Background(), args[0])
}
