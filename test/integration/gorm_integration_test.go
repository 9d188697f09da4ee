package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"cubie-assistant/internal/entity"
	"cubie-assistant/internal/model"
	"cubie-assistant/internal/repository/specification"
	"cubie-assistant/internal/repository/unitofwork"
	"cubie-assistant/internal/service"
	"cubie-assistant/pkg/analytics"
	"cubie-assistant/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func vector(first float32) []float32 {
	v := make([]float32, 768)
	v[0] = first
	return v
}

func TestHelpChunks_ReplaceAllIsAtomic(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(db)

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.HelpChunkRepository().ReplaceAll(ctx, []*entity.HelpChunk{
		{SourceTitle: "Rate Calculator", ChunkIndex: 1, Content: "second", Embedding: vector(0.2)},
		{SourceTitle: "Rate Calculator", ChunkIndex: 0, Content: "first", Embedding: vector(0.1)},
	}))
	require.NoError(t, uow.Commit())

	chunks, err := factory.NewUnitOfWork(ctx).HelpChunkRepository().FindAll(ctx, specification.CorpusOrder{})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "first", chunks[0].Content)
	assert.Len(t, chunks[0].Embedding, 768)

	// A rolled back rebuild leaves the committed corpus alone.
	uow = factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.HelpChunkRepository().ReplaceAll(ctx, nil))
	require.NoError(t, uow.Rollback())

	count, err := factory.NewUnitOfWork(ctx).HelpChunkRepository().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestDisputeStatus_WritesAuditTrail(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	const disputeID = 990001
	require.NoError(t, db.Where("dispute_id = ?", disputeID).Delete(&model.AuditTrail{}).Error)
	require.NoError(t, db.Save(&model.Dispute{DisputeId: disputeID, Status: entity.DisputeStatusOpen, Carrier: "FedEx"}).Error)

	backend := service.NewAnalyticsBackend(unitofwork.NewRepositoryFactory(db))
	out, err := backend.UpdateDisputeStatus(ctx, analytics.DisputeUpdate{DisputeID: disputeID, Action: "close", ChangedBy: "jdoe"})
	require.NoError(t, err)
	assert.Equal(t, entity.DisputeStatusOpen, out.PreviousStatus)
	assert.Equal(t, entity.DisputeStatusClosed, out.NewStatus)

	var stored model.Dispute
	require.NoError(t, db.First(&stored, "dispute_id = ?", disputeID).Error)
	assert.Equal(t, "jdoe", stored.ChangedBy)
	require.NotNil(t, stored.ChangedOn)
	assert.WithinDuration(t, time.Now(), *stored.ChangedOn, time.Minute)

	var audits []model.AuditTrail
	require.NoError(t, db.Where("dispute_id = ?", disputeID).Find(&audits).Error)
	assert.Len(t, audits, 1)
}
