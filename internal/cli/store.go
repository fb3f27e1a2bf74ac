package cli

import (
	"time"

	"github.com/harun/recall/internal/config"
	"github.com/harun/recall/internal/logger"
	"github.com/harun/recall/pkg/docstore"
)

// openStore loads configuration and opens the document store. The caller
// owns both returned handles and must Close them.
func openStore() (*docstore.Store, *logger.Logger, error) {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logCfg := logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
	}
	if logLevel != "" {
		logCfg.Level = logLevel
	}

	log, err := logger.New(logCfg)
	if err != nil {
		return nil, nil, err
	}

	var provider docstore.EmbeddingProvider
	if cfg.Embedding.Enabled() {
		provider = docstore.NewOpenAIProvider(cfg.Embedding.APIKey, cfg.Embedding.Model)
	}

	store, err := docstore.Open(docstore.Config{
		DBPath:        cfg.DBPath,
		Logger:        log.GetZerolog(),
		Provider:      provider,
		MaxEmbedChars: cfg.Embedding.MaxChars,
		EmbedTimeout:  time.Duration(cfg.Embedding.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		log.Close()
		return nil, nil, err
	}

	return store, log, nil
}

// formatCreatedAt renders a created_at timestamp for terminal output.
func formatCreatedAt(createdAt float64) string {
	return time.Unix(int64(createdAt), 0).Format("2006-01-02 15:04:05")
}
