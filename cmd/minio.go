package cmd

import (
	"fmt"
	"log"

	"tuneport/config"
	"tuneport/storage"

	"github.com/spf13/cobra"
)

var minioPrefix string

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Inspect the MinIO media bucket",
	Long:  `Connect to MinIO and list the uploaded release media (audio, covers, signatures, contracts) under a prefix.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("MinIO: %s, bucket %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("cannot connect to MinIO: %v", err)
		}
		fmt.Println("MinIO connection OK")

		if err := storage.ListObjects(cfg, minioPrefix); err != nil {
			log.Fatalf("listing objects failed: %v", err)
		}
	},
}

func init() {
	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "object key prefix to list")
	rootCmd.AddCommand(minioCmd)
}
