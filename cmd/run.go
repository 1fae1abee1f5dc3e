package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kshimizu/manabo/internal/api"
	"github.com/kshimizu/manabo/internal/app"
	"github.com/kshimizu/manabo/internal/export"
	"github.com/kshimizu/manabo/internal/screens/home"
)

// runApp loads config, opens the store, builds the service client, and
// launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	client := api.NewHTTPClient(cfg.Server.BaseURL, cfg.Server.Timeout, st.RequestLog())

	return app.Run(home.Options{
		Client:              client,
		Prefs:               st.Prefs(),
		Sink:                export.NewFileSink(cfg.ResolveDownloadDir()),
		RecommendationLimit: cfg.UI.RecommendationLimit,
		DefaultCorrections:  cfg.UI.ShowCorrections,
	})
}
