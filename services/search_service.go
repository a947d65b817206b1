package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/domain/search"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/AlexandreSaynov/tp1ADC/repositories"
	"github.com/blugelabs/bluge"
	"github.com/samber/lo"
)

const (
	defaultMaxHits = 10

	fieldChatID    = "chat_id"
	fieldChatName  = "chat_name"
	fieldSender    = "sender"
	fieldContent   = "content"
	fieldTimestamp = "timestamp"
)

type ISearchService interface {
	Search(ctx context.Context, username string, query search.Query) ([]search.Hit, error)
}

// SearchService runs full-text queries over the messages a user can read.
// The index is built in memory for every query so it never outlives a deleted chat.
type SearchService struct {
	log     *slog.Logger
	repo    repositories.IChatRepository
	maxHits int
}

// NewSearchService caps every query at maxHits; a non positive value means 10.
func NewSearchService(log *slog.Logger, repo repositories.IChatRepository, maxHits int) *SearchService {
	if maxHits <= 0 {
		maxHits = defaultMaxHits
	}
	return &SearchService{log: log, repo: repo, maxHits: maxHits}
}

func (s *SearchService) Search(ctx context.Context, username string, query search.Query) ([]search.Hit, error) {
	if query.IsEmpty() {
		return nil, errors.ErrEmptyQuery
	}

	summaries, err := s.repo.ListChatsForParticipant(username)
	if err != nil {
		return nil, err
	}
	if query.ChatID != "" {
		summaries = lo.Filter(summaries, func(sum chat.Summary, _ int) bool {
			return sum.ID.String() == query.ChatID
		})
	}
	if len(summaries) == 0 {
		return nil, nil
	}

	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}
	defer func() { _ = writer.Close() }()

	indexed, err := s.index(ctx, writer, summaries)
	if err != nil {
		return nil, err
	}
	if indexed == 0 {
		return nil, nil
	}

	reader, err := writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open search reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	hits, err := collect(ctx, reader, query, s.maxHits)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Search executed", "user", username, "chats", len(summaries), "messages", indexed, "hits", len(hits))
	return hits, nil
}

func (s *SearchService) index(ctx context.Context, writer *bluge.Writer, summaries []chat.Summary) (int, error) {
	batch := bluge.NewBatch()
	count := 0
	for _, sum := range summaries {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		c, err := s.repo.GetChat(sum.ID)
		if err != nil {
			// Deleted between listing and loading.
			if stderrors.Is(err, errors.ErrNotFound) {
				continue
			}
			return 0, err
		}
		for i, msg := range c.Messages {
			doc := bluge.NewDocument(fmt.Sprintf("%s/%d", c.ID, i)).
				AddField(bluge.NewKeywordField(fieldChatID, c.ID.String()).StoreValue()).
				AddField(bluge.NewStoredOnlyField(fieldChatName, []byte(c.Name))).
				AddField(bluge.NewKeywordField(fieldSender, msg.Sender).StoreValue()).
				AddField(bluge.NewTextField(fieldContent, msg.Content).StoreValue()).
				AddField(bluge.NewStoredOnlyField(fieldTimestamp, []byte(chat.FormatTimestamp(msg.Timestamp))))
			batch.Update(doc.ID(), doc)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	if err := writer.Batch(batch); err != nil {
		return 0, fmt.Errorf("failed to index messages: %w", err)
	}
	return count, nil
}

func collect(ctx context.Context, reader *bluge.Reader, query search.Query, maxHits int) ([]search.Hit, error) {
	q := bluge.NewBooleanQuery()
	if query.Terms != "" {
		q.AddMust(bluge.NewMatchQuery(query.Terms).SetField(fieldContent))
	} else {
		q.AddMust(bluge.NewMatchAllQuery())
	}
	if query.Sender != "" {
		q.AddMust(bluge.NewTermQuery(query.Sender).SetField(fieldSender))
	}

	limit := maxHits
	if query.Limit > 0 {
		limit = min(query.Limit, maxHits)
	}
	dmi, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var hits []search.Hit
	match, err := dmi.Next()
	for err == nil && match != nil {
		hit := search.Hit{Score: match.Score}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case fieldChatID:
				hit.ChatID = string(value)
			case fieldChatName:
				hit.ChatName = string(value)
			case fieldSender:
				hit.Sender = string(value)
			case fieldContent:
				hit.Content = string(value)
			case fieldTimestamp:
				hit.Timestamp = string(value)
			}
			return true
		})
		if err != nil {
			break
		}
		hits = append(hits, hit)
		match, err = dmi.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read search hits: %w", err)
	}
	return hits, nil
}
