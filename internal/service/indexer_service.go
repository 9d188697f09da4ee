package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"cubie-assistant/internal/entity"
	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/internal/repository/specification"
	"cubie-assistant/internal/repository/unitofwork"
	"cubie-assistant/pkg/embedding"
	"cubie-assistant/pkg/events"
	"cubie-assistant/pkg/metrics"
	"cubie-assistant/pkg/rag/index"
	"cubie-assistant/pkg/utils"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"
)

const (
	chunkSize    = 4000
	chunkOverlap = 400
)

// HelpDocument is one source file of the help corpus.
type HelpDocument struct {
	Title             string
	Content           string
	UnderConstruction bool
}

type IndexReport struct {
	Documents int
	Chunks    int
}

type IIndexerService interface {
	Build(ctx context.Context, docs []HelpDocument) (*IndexReport, error)
	Reload(ctx context.Context) (int, error)
}

type IndexerConfig struct {
	Concurrency int
	// Topic prefix for the per-build chunk queue.
	Topic string
}

type indexerService struct {
	pubSub            *gochannel.GoChannel
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	index             *index.Index
	publisher         events.Publisher
	config            IndexerConfig
	logger            logger.ILogger
}

func NewIndexerService(
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	idx *index.Index,
	publisher events.Publisher,
	config IndexerConfig,
	log logger.ILogger,
) IIndexerService {
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	if config.Topic == "" {
		config.Topic = "help-index"
	}
	return &indexerService{
		pubSub:            pubSub,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		index:             idx,
		publisher:         publisher,
		config:            config,
		logger:            log,
	}
}

type chunkMessage struct {
	Position          int    `json:"position"`
	SourceTitle       string `json:"source_title"`
	ChunkIndex        int    `json:"chunk_index"`
	Content           string `json:"content"`
	UnderConstruction bool   `json:"under_construction"`
}

func splitDocuments(docs []HelpDocument) []chunkMessage {
	var out []chunkMessage
	for _, d := range docs {
		content := strings.TrimSpace(d.Content)
		if content == "" {
			continue
		}
		for i, part := range utils.SplitText(content, chunkSize, chunkOverlap) {
			out = append(out, chunkMessage{
				Position:          len(out),
				SourceTitle:       d.Title,
				ChunkIndex:        i,
				Content:           part,
				UnderConstruction: d.UnderConstruction,
			})
		}
	}
	return out
}

// Build embeds every chunk, replaces the stored corpus and swaps the live
// snapshot. Chunks travel through an in-process queue and are embedded with
// bounded concurrency.
func (s *indexerService) Build(ctx context.Context, docs []HelpDocument) (*IndexReport, error) {
	chunks := splitDocuments(docs)
	if len(chunks) == 0 {
		return nil, errors.New("help corpus is empty")
	}

	embedded, err := s.embedAll(ctx, chunks)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()
	if err := uow.HelpChunkRepository().ReplaceAll(ctx, embedded); err != nil {
		return nil, fmt.Errorf("store help chunks: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := s.swap(embedded); err != nil {
		return nil, err
	}

	report := &IndexReport{Documents: len(docs), Chunks: len(embedded)}
	if err := s.publisher.Publish(ctx, events.HelpIndexRebuilt(report.Chunks, report.Documents)); err != nil {
		s.logger.Warn("INDEXER", "Failed to publish rebuild event", map[string]interface{}{"error": err})
	}
	s.logger.Info("INDEXER", "Help index rebuilt", map[string]interface{}{
		"documents": report.Documents,
		"chunks":    report.Chunks,
	})
	return report, nil
}

func (s *indexerService) embedAll(ctx context.Context, chunks []chunkMessage) ([]*entity.HelpChunk, error) {
	topic := s.config.Topic + "." + uuid.NewString()
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Subscribe first: the channel pub/sub drops messages nobody listens to.
	messages, err := s.pubSub.Subscribe(subCtx, topic)
	if err != nil {
		return nil, err
	}

	for _, c := range chunks {
		payload, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		if err := s.pubSub.Publish(topic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
			return nil, err
		}
	}

	out := make([]*entity.HelpChunk, len(chunks))
	var done atomic.Int64
	g, gctx := errgroup.WithContext(subCtx)
	g.SetLimit(s.config.Concurrency)

	now := time.Now()
	for received := 0; received < len(chunks); received++ {
		var msg *message.Message
		select {
		case <-gctx.Done():
			if err := g.Wait(); err != nil {
				return nil, err
			}
			return nil, ctx.Err()
		case m, ok := <-messages:
			if !ok {
				return nil, errors.New("chunk queue closed")
			}
			msg = m
		}

		var c chunkMessage
		if err := json.Unmarshal(msg.Payload, &c); err != nil {
			msg.Ack()
			return nil, fmt.Errorf("decode chunk message: %w", err)
		}
		msg.Ack()

		g.Go(func() error {
			vec, err := s.embeddingProvider.Generate(gctx, c.Content, embedding.TaskRetrievalDocument)
			if err != nil {
				return fmt.Errorf("embed %s#%d: %w", c.SourceTitle, c.ChunkIndex, err)
			}
			out[c.Position] = &entity.HelpChunk{
				Id:                uuid.New(),
				SourceTitle:       c.SourceTitle,
				ChunkIndex:        c.ChunkIndex,
				Content:           c.Content,
				UnderConstruction: c.UnderConstruction,
				Embedding:         vec,
				CreatedAt:         now,
			}
			if n := done.Add(1); n%50 == 0 {
				s.logger.Debug("INDEXER", "Embedding progress", map[string]interface{}{"done": n, "total": len(chunks)})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Reload rebuilds the live snapshot from the stored corpus.
func (s *indexerService) Reload(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chunks, err := uow.HelpChunkRepository().FindAll(ctx, specification.CorpusOrder{})
	if err != nil {
		return 0, err
	}
	if err := s.swap(chunks); err != nil {
		return 0, err
	}
	s.logger.Info("INDEXER", "Help snapshot reloaded", map[string]interface{}{"chunks": len(chunks)})
	return len(chunks), nil
}

func (s *indexerService) swap(chunks []*entity.HelpChunk) error {
	sorted := make([]*entity.HelpChunk, len(chunks))
	copy(sorted, chunks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SourceTitle != sorted[j].SourceTitle {
			return sorted[i].SourceTitle < sorted[j].SourceTitle
		}
		return sorted[i].ChunkIndex < sorted[j].ChunkIndex
	})

	items := make([]index.Chunk, len(sorted))
	for i, c := range sorted {
		items[i] = index.Chunk{
			ID:                c.Id.String(),
			SourceTitle:       c.SourceTitle,
			Text:              c.Content,
			UnderConstruction: c.UnderConstruction,
			Embedding:         c.Embedding,
		}
	}
	snapshot, err := index.NewSnapshot(items)
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}
	s.index.Swap(snapshot)
	metrics.IndexChunks.Set(float64(snapshot.Len()))
	return nil
}

var (
	helpFileExt       = map[string]bool{".md": true, ".markdown": true, ".html": true, ".htm": true, ".txt": true}
	htmlTitle         = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	markdownTitle     = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	underConstruction = regexp.MustCompile(`(?i)\bunder\s+construction\b`)
	stripHTML         = bluemonday.StrictPolicy()
)

// ReadHelpDocuments loads every markdown, HTML and text file under dir, in
// path order.
func ReadHelpDocuments(dir string) ([]HelpDocument, error) {
	var docs []HelpDocument
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if d.IsDir() || !helpFileExt[ext] {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		docs = append(docs, parseHelpDocument(filepath.Base(path), ext, string(raw)))
		return nil
	})
	return docs, err
}

func parseHelpDocument(name, ext, raw string) HelpDocument {
	title := strings.TrimSuffix(name, filepath.Ext(name))
	content := raw
	switch ext {
	case ".html", ".htm":
		if m := htmlTitle.FindStringSubmatch(raw); m != nil {
			title = strings.TrimSpace(html.UnescapeString(m[1]))
		}
		content = html.UnescapeString(stripHTML.Sanitize(raw))
	case ".md", ".markdown":
		if m := markdownTitle.FindStringSubmatch(raw); m != nil {
			title = strings.TrimSpace(m[1])
		}
	}
	return HelpDocument{
		Title:             title,
		Content:           strings.TrimSpace(content),
		UnderConstruction: underConstruction.MatchString(content),
	}
}
