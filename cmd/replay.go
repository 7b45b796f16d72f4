package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"view-sync/core/config"
	"view-sync/core/logger"
	"view-sync/core/sectioned"
	"view-sync/core/surface"
	"view-sync/feature/inspect"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var replayPolicy string

// replayCmd replays recorded transactions against an in-memory surface.
var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Replay a transaction log against an in-memory surface",
	Long: `Replay reads a JSON array of transactions and applies each one to a
fresh in-memory model and surface, printing the patch operations every
replay issued.

The file format matches the POST /api/transactions body:

  [
    {"events": [{"kind": "insert_section", "index": 0}]},
    {"events": [{"kind": "insert", "new_path": {"section": 0, "item": 0}, "item": "a"}]}
  ]

Examples:
  # Replay with the configured policy
  view-sync replay transactions.json

  # Force the batched policy
  view-sync replay transactions.json --policy batched`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayPolicy, "policy", "", "Reconciler policy override (sequential or batched)")
	RootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	policy := cfg.Server.Policy
	if replayPolicy != "" {
		policy = replayPolicy
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read transaction log: %w", err)
	}

	var transactions []struct {
		Events []inspect.Event `json:"events"`
	}
	if err := json.Unmarshal(data, &transactions); err != nil {
		return fmt.Errorf("failed to parse transaction log: %w", err)
	}

	model := sectioned.NewModel()
	surf := surface.New(model, nil, l)
	svc, err := inspect.NewService(model, surf, policy, nil, l)
	if err != nil {
		return err
	}

	l.Info("Replaying transactions",
		zap.String("policy", policy),
		zap.Int("transactions", len(transactions)))

	reports := make([]*inspect.Report, 0, len(transactions))
	for i, txn := range transactions {
		report, err := svc.Perform(context.Background(), txn.Events)
		if err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		reports = append(reports, report)
	}

	out, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	fmt.Println(string(out))

	return nil
}
