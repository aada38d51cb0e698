package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/costbook/internal/dialog"
	"github.com/Spok95/costbook/internal/domain/items"
)

const helpText = "Команды:\n" +
	"/start — главное меню\n" +
	"/catalog — каталог товаров и материалов\n" +
	"/products — продукты и рецепты\n" +
	"/help — помощь"

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.resetState(ctx, chatID)
		m := tgbotapi.NewMessage(chatID, "Привет! Здесь каталог товаров и материалов и себестоимость рецептов. Выберите раздел кнопками снизу.")
		m.ReplyMarkup = mainReplyKeyboard()
		b.send(m)
	case "help":
		b.send(tgbotapi.NewMessage(chatID, helpText))
	case "catalog":
		b.renderInventory(ctx, chatID, nil, dialog.Payload{}, nil)
	case "products":
		b.showProducts(ctx, chatID, nil)
	default:
		b.send(tgbotapi.NewMessage(chatID, "Не знаю такую команду. Наберите /help"))
	}
}

func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	// Нижняя панель работает из любого состояния
	switch text {
	case btnCatalog:
		b.renderInventory(ctx, chatID, nil, dialog.Payload{}, nil)
		return
	case btnProducts:
		b.showProducts(ctx, chatID, nil)
		return
	case btnNewProduct:
		b.startNewItem(ctx, chatID, nil, items.KindProduct)
		return
	case btnNewMaterial:
		b.startNewItem(ctx, chatID, nil, items.KindMaterial)
		return
	}

	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.failStore(chatID, "dialog_get", msgLoadFailed, err)
		return
	}

	switch st.State {
	case dialog.StateInvSearch, dialog.StateInvDept,
		dialog.StateInvBulkDept, dialog.StateInvBulkPrice:
		b.onInventoryText(ctx, chatID, st, text)
	case dialog.StateItemName, dialog.StateItemCode,
		dialog.StateItemDept, dialog.StateItemPrice:
		b.onNewItemText(ctx, chatID, st, text)
	case dialog.StateProdName, dialog.StateProdCode, dialog.StateProdNewDept:
		b.onProductText(ctx, chatID, st, text)
	case dialog.StateRecipeName, dialog.StateRecipeNotes,
		dialog.StateRecipeAmount, dialog.StateRecipePrice:
		b.onRecipeText(ctx, chatID, st, text)
	case dialog.StateInvImportFile:
		b.send(tgbotapi.NewMessage(chatID, "Пришлите файл .xlsx с колонками id и price."))
	default:
		m := tgbotapi.NewMessage(chatID, "Выберите раздел кнопками снизу или наберите /help")
		m.ReplyMarkup = mainReplyKeyboard()
		b.send(m)
	}
}

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.failStore(chatID, "dialog_get", msgLoadFailed, err)
		return
	}
	if st.State != dialog.StateInvImportFile {
		b.send(tgbotapi.NewMessage(chatID, "Файл не ожидается. Чтобы загрузить цены, откройте «Каталог» → «Цены из Excel»."))
		return
	}
	b.importPrices(ctx, chatID, st, msg.Document)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	data := cb.Data
	_ = b.answerCallback(cb, "", false)

	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.failStore(chatID, "dialog_get", msgLoadFailed, err)
		return
	}

	switch {
	case data == "noop":
		return
	case data == "nav:cancel":
		b.resetState(ctx, chatID)
		b.editTextAndClear(chatID, mid, "Действие отменено.")
	case data == "nav:back":
		b.back(ctx, chatID, mid, st)
	case strings.HasPrefix(data, "inv:"):
		b.onInventoryCallback(ctx, cb, st, strings.TrimPrefix(data, "inv:"))
	case strings.HasPrefix(data, "item:new:"):
		b.startNewItem(ctx, chatID, &mid, items.Kind(strings.TrimPrefix(data, "item:new:")))
	case strings.HasPrefix(data, "pd:"):
		b.onProductCallback(ctx, cb, st, strings.TrimPrefix(data, "pd:"))
	case strings.HasPrefix(data, "rc:"):
		b.onRecipeCallback(ctx, cb, st, strings.TrimPrefix(data, "rc:"))
	default:
		b.log.Warn("unknown callback", "data", data)
	}
}

// back: шаг назад по экранам; черновик рецепта при выходе из редактора не сохраняется.
func (b *Bot) back(ctx context.Context, chatID int64, mid int, st *dialog.Item) {
	switch st.State {
	case dialog.StateInvSearch, dialog.StateInvDept, dialog.StateInvBulkDept,
		dialog.StateInvBulkPrice, dialog.StateInvBulkDelete, dialog.StateInvImportFile:
		b.renderInventory(ctx, chatID, &mid, st.Payload, nil)
	case dialog.StateProdCard, dialog.StateProdName, dialog.StateProdCode,
		dialog.StateProdSale, dialog.StateProdSegment, dialog.StateProdNewDept:
		b.showProducts(ctx, chatID, &mid)
	case dialog.StateRecipeEdit, dialog.StateRecipeName, dialog.StateRecipeNotes,
		dialog.StateRecipeAmount, dialog.StateRecipePrice:
		pid, _ := dialog.GetString(st.Payload, keyProductID)
		b.showProductCard(ctx, chatID, &mid, pid)
	default:
		b.resetState(ctx, chatID)
		b.editTextAndClear(chatID, mid, "Выберите раздел кнопками снизу.")
	}
}
