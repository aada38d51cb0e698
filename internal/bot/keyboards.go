package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Кнопки нижней панели
const (
	btnCatalog     = "Каталог"
	btnProducts    = "Продукты"
	btnNewProduct  = "Новый товар"
	btnNewMaterial = "Новый материал"
)

func navKeyboard(back bool, cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if back {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "nav:back"))
	}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Отменить", "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func navRow(back, cancel bool) []tgbotapi.InlineKeyboardButton {
	return navKeyboard(back, cancel).InlineKeyboard[0]
}

func mainReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard: true,
		Keyboard: [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton(btnCatalog), tgbotapi.NewKeyboardButton(btnProducts)},
			{tgbotapi.NewKeyboardButton(btnNewProduct), tgbotapi.NewKeyboardButton(btnNewMaterial)},
		},
	}
}

func confirmKeyboard(yesData string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Да, удалить", yesData),
		),
		navRow(true, true),
	)
}

// mark отмечает активный вариант фильтра или сортировки.
func mark(active bool, label string) string {
	if active {
		return "• " + label
	}
	return label
}

func checkbox(on bool) string {
	if on {
		return "☑️"
	}
	return "⬜"
}
