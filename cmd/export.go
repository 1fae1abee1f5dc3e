package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kshimizu/manabo/internal/api"
	"github.com/kshimizu/manabo/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the study-data workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client := api.NewHTTPClient(cfg.Server.BaseURL, cfg.Server.Timeout, nil)

		doc, err := client.ExportStudyData(cmd.Context())
		if err != nil {
			return err
		}

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.ResolveDownloadDir()
		}

		path, err := export.NewFileSink(dir).Deliver(doc.Data, doc.Filename)
		if err != nil {
			return err
		}
		fmt.Println("Saved to", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("dir", "", "Directory to save the export into")
}
