package cmd

import (
	"fmt"

	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/internal/repository/unitofwork"
	"cubie-assistant/internal/service"
	"cubie-assistant/pkg/database"
	"cubie-assistant/pkg/embedding"
	"cubie-assistant/pkg/events"
	pktNats "cubie-assistant/pkg/nats"
	"cubie-assistant/pkg/rag/index"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var indexConcurrency int

var indexCmd = &cobra.Command{
	Use:   "index <dir>",
	Short: "Rebuild the help corpus from a directory of help pages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logger.NewZapLogger(cfg.App.LogFilePath, false)
		defer log.Sync()

		docs, err := service.ReadHelpDocuments(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Read %d help documents from %s\n", len(docs), args[0])

		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
		if err != nil {
			return err
		}
		emb, err := embedding.NewProvider(ctx, cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel, cfg.Ai.GeminiAPIKey, cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingDimensions)
		if err != nil {
			return err
		}

		// Running servers reload their snapshot when they see the rebuild event.
		var publisher events.Publisher = events.NopPublisher{}
		if natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, log); err != nil {
			color.Yellow("NATS unavailable (%v): running servers will not reload automatically", err)
		} else {
			defer natsPub.Close()
			publisher = natsPub
		}

		pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
		defer pubSub.Close()

		indexer := service.NewIndexerService(pubSub, unitofwork.NewRepositoryFactory(db), emb, index.New(), publisher,
			service.IndexerConfig{Concurrency: indexConcurrency}, log)
		report, err := indexer.Build(ctx, docs)
		if err != nil {
			color.Red("Index build failed: %v", err)
			return err
		}
		color.Green("Indexed %d chunks from %d documents", report.Chunks, report.Documents)
		return nil
	},
}

func init() {
	indexCmd.Flags().IntVarP(&indexConcurrency, "concurrency", "c", 4, "parallel embedding requests")
}
