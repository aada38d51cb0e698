package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/costbook/internal/dialog"
	"github.com/Spok95/costbook/internal/domain/items"
	"github.com/Spok95/costbook/internal/domain/recipes"
)

func kindTitle(k items.Kind) string {
	if k == items.KindProduct {
		return "товар"
	}
	return "материал"
}

func (b *Bot) startNewItem(ctx context.Context, chatID int64, editMsgID *int, kind items.Kind) {
	if !kind.Valid() {
		return
	}
	b.setState(ctx, chatID, dialog.StateItemName, dialog.Payload{"kind": string(kind)})
	b.show(chatID, editMsgID, fmt.Sprintf("Новый %s. Введите название:", kindTitle(kind)), navKeyboard(false, true))
}

func (b *Bot) onNewItemText(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	p := st.Payload

	switch st.State {
	case dialog.StateItemName:
		if text == "" {
			b.send(tgbotapi.NewMessage(chatID, "Название обязательно. Введите название:"))
			return
		}
		p["name"] = text
		b.setState(ctx, chatID, dialog.StateItemCode, p)
		b.show(chatID, nil, "Код (артикул):", navKeyboard(false, true))

	case dialog.StateItemCode:
		if text == "" {
			b.send(tgbotapi.NewMessage(chatID, "Код обязателен. Введите код:"))
			return
		}
		p["code"] = text
		b.setState(ctx, chatID, dialog.StateItemDept, p)
		b.show(chatID, nil, "Отдел:", navKeyboard(false, true))

	case dialog.StateItemDept:
		if text == "" {
			b.send(tgbotapi.NewMessage(chatID, "Выберите отдел. Введите название отдела:"))
			return
		}
		p["department"] = text
		b.setState(ctx, chatID, dialog.StateItemPrice, p)
		b.show(chatID, nil, "Цена за единицу:", navKeyboard(false, true))

	case dialog.StateItemPrice:
		kind := items.Kind(payloadString(p, "kind"))
		it, err := items.Create(ctx, b.items, kind, items.NewItem{
			Name:       payloadString(p, "name"),
			Code:       payloadString(p, "code"),
			Department: payloadString(p, "department"),
			Price:      recipes.ParseNumber(text),
		})
		if verr, ok := asValidation(err, "item"); ok {
			b.send(tgbotapi.NewMessage(chatID, formatErrors(verr)+"\nВведите цену ещё раз:"))
			return
		}
		if err != nil {
			b.failStore(chatID, "item_create", msgSaveFailed, err)
			return
		}

		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Создан %s «%s» (%s), цена %s.", kindTitle(it.Kind), it.Name, it.Code, money(it.Price))))
		b.renderInventory(ctx, chatID, nil, dialog.Payload{}, nil)
	}
}
