package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/language"

	"github.com/Spok95/costbook/internal/dialog"
	"github.com/Spok95/costbook/internal/domain/catalog"
	"github.com/Spok95/costbook/internal/domain/items"
	"github.com/Spok95/costbook/internal/domain/products"
	"github.com/Spok95/costbook/internal/domain/recipes"
)

// API: та часть tgbotapi.BotAPI, которой пользуется бот.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetFileDirectURL(fileID string) (string, error)
}

type Deps struct {
	Log       *slog.Logger
	States    dialog.Store
	Items     items.Store
	Catalog   catalog.Store
	Products  products.Store
	Recipes   recipes.Store
	Locale    language.Tag
	PageSize  int
	PublicURL string
	Allowed   func(chatID int64) bool // nil — пускаем всех
}

type Bot struct {
	api       API
	log       *slog.Logger
	states    dialog.Store
	items     items.Store
	catalog   catalog.Store
	products  *products.Service
	recipes   recipes.Store
	tag       language.Tag
	pageSize  int
	publicURL string
	allowed   func(int64) bool
}

func New(api API, d Deps) *Bot {
	b := &Bot{
		api:       api,
		log:       d.Log,
		states:    d.States,
		items:     d.Items,
		catalog:   d.Catalog,
		products:  products.NewService(d.Products),
		recipes:   d.Recipes,
		tag:       d.Locale,
		pageSize:  d.PageSize,
		publicURL: d.PublicURL,
		allowed:   d.Allowed,
	}
	if b.pageSize <= 0 {
		b.pageSize = 25
	}
	if b.allowed == nil {
		b.allowed = func(int64) bool { return true }
	}
	return b
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.Handle(ctx, upd)
		}
	}
}

// Handle обрабатывает одно обновление.
func (b *Bot) Handle(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		b.onMessage(ctx, upd)
	} else if upd.CallbackQuery != nil {
		b.onCallback(ctx, upd)
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg.Chat == nil {
		return
	}
	if !b.allowed(msg.Chat.ID) {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Доступ запрещён"))
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	if msg.Document != nil {
		b.handleDocument(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	cb := upd.CallbackQuery
	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	if !b.allowed(cb.Message.Chat.ID) {
		_ = b.answerCallback(cb, "Доступ запрещён", true)
		return
	}
	b.handleCallback(ctx, cb)
}
