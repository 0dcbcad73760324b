// Package bot orchestrates inbound events: classification, enrichment,
// persistence and replies, with strict per-event failure isolation.
package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shunonion-sudo/health-habits/internal/classify"
	"github.com/shunonion-sudo/health-habits/internal/llm"
	"github.com/shunonion-sudo/health-habits/internal/messaging"
	"github.com/shunonion-sudo/health-habits/internal/nutrition"
	"github.com/shunonion-sudo/health-habits/internal/store"
)

// Replier delivers one reply; failures are logged and dropped, never
// retried.
type Replier interface {
	Reply(ctx context.Context, replyToken string, text string) error
}

// SheetNames maps each log category to its sheet in the store.
type SheetNames struct {
	Meal       string
	Exercise   string
	Meditation string
	Journal    string
}

type Dispatcher struct {
	completer llm.Client
	extractor *nutrition.Extractor
	logStore  store.Store
	replier   Replier
	sheets    SheetNames
	location  *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

func NewDispatcher(completer llm.Client, logStore store.Store, replier Replier, sheets SheetNames, location *time.Location, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		completer: completer,
		extractor: nutrition.NewExtractor(completer),
		logStore:  logStore,
		replier:   replier,
		sheets:    sheets,
		location:  location,
		logger:    logger,
		now:       time.Now,
	}
}

// Dispatch fans out one task per event and returns once every task has
// settled. Events share nothing; a failure in one is invisible to its
// siblings and to the webhook response.
func (dispatcher *Dispatcher) Dispatch(ctx context.Context, events []messaging.Event) {
	var group errgroup.Group
	for _, event := range events {
		event := event
		group.Go(func() error {
			dispatcher.handle(ctx, event)
			return nil
		})
	}
	_ = group.Wait()
}

func (dispatcher *Dispatcher) handle(ctx context.Context, event messaging.Event) {
	defer func() {
		if recovered := recover(); recovered != nil {
			dispatcher.logger.Error("event handling panicked",
				zap.Any("panic", recovered),
				zap.String("user_id", event.UserID))
		}
	}()

	if event.Kind != messaging.KindTextMessage {
		return
	}

	reply, send := dispatcher.replyFor(ctx, event)
	if !send {
		return
	}
	if err := dispatcher.replier.Reply(ctx, event.ReplyToken, reply); err != nil {
		dispatcher.logger.Warn("reply delivery failed",
			zap.Error(err),
			zap.String("user_id", event.UserID))
	}
}

// replyFor runs the per-category flow and returns the reply text. A false
// second return means the failure was swallowed and no reply goes out.
func (dispatcher *Dispatcher) replyFor(ctx context.Context, event messaging.Event) (string, bool) {
	now := dispatcher.now().In(dispatcher.location)
	category, mealType := classify.Classify(event.Text)

	switch category {
	case classify.CategoryMeal:
		if dateRange := classify.ResolveRange(event.Text, now); dateRange != nil {
			return dispatcher.summaryReply(ctx, *dateRange)
		}
		return dispatcher.mealReply(ctx, event, mealType, now)
	case classify.CategoryExercise:
		return dispatcher.simpleLogReply(ctx, dispatcher.sheets.Exercise, ackExercise, event, now)
	case classify.CategoryMeditation:
		return dispatcher.simpleLogReply(ctx, dispatcher.sheets.Meditation, ackMeditation, event, now)
	case classify.CategoryJournal:
		return dispatcher.simpleLogReply(ctx, dispatcher.sheets.Journal, ackJournal, event, now)
	default:
		return dispatcher.chatReply(ctx, event.Text), true
	}
}

func (dispatcher *Dispatcher) mealReply(ctx context.Context, event messaging.Event, mealType classify.MealType, now time.Time) (string, bool) {
	vector, report, err := dispatcher.extractor.Extract(ctx, event.Text)
	if err != nil {
		dispatcher.logger.Error("nutrient extraction failed",
			zap.Error(err),
			zap.String("user_id", event.UserID))
		return "", false
	}

	mealDate := classify.ResolveLogDate(event.Text, now)
	row := nutrition.MealRow(now, mealDate, mealType, event.Text, vector)
	if err := dispatcher.logStore.Append(ctx, dispatcher.sheets.Meal, row); err != nil {
		dispatcher.logger.Error("meal log append failed",
			zap.Error(err),
			zap.String("user_id", event.UserID))
		return "", false
	}
	return mealLoggedPrefix + report, true
}

func (dispatcher *Dispatcher) summaryReply(ctx context.Context, dateRange classify.DateRange) (string, bool) {
	rows, err := dispatcher.logStore.Rows(ctx, dispatcher.sheets.Meal)
	if err != nil {
		dispatcher.logger.Error("meal log fetch failed", zap.Error(err))
		return "", false
	}

	summary, err := nutrition.Summarize(rows, dateRange)
	if errors.Is(err, nutrition.ErrNoRecords) {
		return noRecordsReply, true
	}
	if err != nil {
		dispatcher.logger.Error("summary aggregation failed", zap.Error(err))
		return "", false
	}

	report := nutrition.Format(summary)
	reflection, err := dispatcher.completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: reflectionSystemPrompt},
		{Role: llm.RoleUser, Content: report},
	}, llm.Params{
		Temperature: 0.7,
		MaxTokens:   300,
		MaxRetries:  1,
	})
	if err != nil {
		// The aggregation already succeeded; ship it without the garnish.
		dispatcher.logger.Warn("coaching reflection failed", zap.Error(err))
		return report, true
	}
	return report + "\n\n" + strings.TrimSpace(reflection), true
}

func (dispatcher *Dispatcher) simpleLogReply(ctx context.Context, sheet string, acknowledgement string, event messaging.Event, now time.Time) (string, bool) {
	if err := dispatcher.logStore.Append(ctx, sheet, store.SimpleRow(now, event.Text)); err != nil {
		dispatcher.logger.Error("log append failed",
			zap.Error(err),
			zap.String("sheet", sheet),
			zap.String("user_id", event.UserID))
		return "", false
	}
	return acknowledgement, true
}

func (dispatcher *Dispatcher) chatReply(ctx context.Context, text string) string {
	reply, err := dispatcher.completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: chatSystemPrompt},
		{Role: llm.RoleUser, Content: text},
	}, llm.Params{
		Temperature: 0.8,
		MaxTokens:   600,
		MaxRetries:  2,
	})
	if err != nil {
		dispatcher.logger.Warn("chat completion failed", zap.Error(err))
		return chatFallback
	}
	return truncateRunes(strings.TrimSpace(reply), chatReplyLimit)
}
