package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Harmony-Global/harmony-admin/internal/directory"
	"github.com/Harmony-Global/harmony-admin/internal/storage"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the record store with user detail snapshots",
	Long:  `Preload the record store with the sample user detail documents so detail views work before the first upstream fetch.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, xdb, err := initStore(cfg.Storage)
		if err != nil {
			log.Fatalf("failed to init record store: %v", err)
		}
		defer xdb.Close()

		ctx := context.Background()

		if clearRecords {
			if err := db.Exec("DELETE FROM records WHERE record_key LIKE 'user_%'").Error; err != nil {
				log.Fatalf("failed to clear snapshots: %v", err)
			}
			fmt.Println("cleared existing user snapshots")
		}

		path := filepath.Join(mockAPIDir, "user-details.json")
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("failed to read %s: %v", path, err)
		}

		var doc struct {
			Status bool                   `json:"status"`
			Data   []directory.UserDetail `json:"data"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			log.Fatalf("failed to parse %s: %v", path, err)
		}

		store := storage.NewGormStore(db)
		seeded := 0
		for i := range doc.Data {
			detail := doc.Data[i]
			value, err := json.Marshal(detail)
			if err != nil {
				log.Fatalf("failed to encode user %d: %v", detail.ID, err)
			}
			key := fmt.Sprintf("user_%d", detail.ID)
			if err := store.Set(ctx, key, value); err != nil {
				log.Fatalf("failed to store %s: %v", key, err)
			}
			seeded++
		}

		fmt.Printf("seeded %d user snapshots\n", seeded)
	},
}
