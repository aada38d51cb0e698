package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/Spok95/costbook/internal/dialog"
	"github.com/Spok95/costbook/internal/infra/metrics"
	"github.com/Spok95/costbook/internal/validation"
)

const (
	msgSaveFailed = "Не удалось сохранить, попробуйте ещё раз"
	msgLoadFailed = "Не удалось загрузить данные, попробуйте ещё раз"
)

/*** HELPERS ***/

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) error {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	_, err := b.api.Request(resp)
	return err
}

// show редактирует сообщение editMsgID или отправляет новое.
func (b *Bot) show(chatID int64, editMsgID *int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if editMsgID != nil {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, *editMsgID, text, kb))
		return
	}
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = kb
	b.send(m)
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}

func (b *Bot) editTextWithNav(chatID int64, messageID int, text string) {
	kb := navKeyboard(true, true)
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	b.send(edit)
}

// setState сохраняет шаг диалога. Ошибка записи не прерывает ответ
// пользователю, но попадает в лог и метрику.
func (b *Bot) setState(ctx context.Context, chatID int64, state dialog.State, p dialog.Payload) {
	if err := b.states.Set(ctx, chatID, state, p); err != nil {
		metrics.StoreErrors.WithLabelValues("dialog_set").Inc()
		b.log.Error("save dialog state failed", "chat_id", chatID, "state", state, "err", err)
	}
}

func (b *Bot) resetState(ctx context.Context, chatID int64) {
	if err := b.states.Reset(ctx, chatID); err != nil {
		metrics.StoreErrors.WithLabelValues("dialog_reset").Inc()
		b.log.Error("reset dialog state failed", "chat_id", chatID, "err", err)
	}
}

// failStore пишет ошибку хранилища в лог и метрику, пользователю
// показывает одно общее сообщение. Состояние диалога не трогает.
func (b *Bot) failStore(chatID int64, op, text string, err error) {
	metrics.StoreErrors.WithLabelValues(op).Inc()
	b.log.Error("store call failed", "op", op, "chat_id", chatID, "err", err)
	b.send(tgbotapi.NewMessage(chatID, text))
}

// asValidation достаёт ошибки формы и считает их в метрике.
func asValidation(err error, form string) (validation.Errors, bool) {
	var verr validation.Errors
	if !errors.As(err, &verr) {
		return nil, false
	}
	metrics.ValidationFailures.WithLabelValues(form).Inc()
	return verr, true
}

// formatErrors: сообщения по полям в стабильном порядке; для полей строк
// рецепта (amount_0, material_1) добавляется номер строки.
func formatErrors(errs validation.Errors) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString("• ")
		sb.WriteString(errs[k])
		if i := strings.LastIndexByte(k, '_'); i > 0 {
			if n, err := strconv.Atoi(k[i+1:]); err == nil {
				fmt.Fprintf(&sb, " (строка %d)", n+1)
			}
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func money(d decimal.Decimal) string {
	return d.Round(2).String()
}

// downloadTelegramFile скачивает файл по FileID через Telegram API.
func (b *Bot) downloadTelegramFile(fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file url: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram returned status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

// pageBounds возвращает границы страницы и поправленный номер страницы.
func pageBounds(total, page, size int) (from, to, cur, pages int) {
	if size <= 0 {
		size = 1
	}
	pages = (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	cur = page
	if cur < 0 {
		cur = 0
	}
	if cur >= pages {
		cur = pages - 1
	}
	from = cur * size
	to = from + size
	if to > total {
		to = total
	}
	return from, to, cur, pages
}

func pagerRow(prefix string, cur, pages int) []tgbotapi.InlineKeyboardButton {
	row := []tgbotapi.InlineKeyboardButton{}
	if cur > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️", fmt.Sprintf("%s:%d", prefix, cur-1)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", cur+1, pages), "noop"))
	if cur+1 < pages {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("▶️", fmt.Sprintf("%s:%d", prefix, cur+1)))
	}
	return row
}
