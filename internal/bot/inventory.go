package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/costbook/internal/dialog"
	"github.com/Spok95/costbook/internal/domain/items"
	"github.com/Spok95/costbook/internal/domain/recipes"
	"github.com/Spok95/costbook/internal/export"
	"github.com/Spok95/costbook/internal/infra/metrics"
)

// Ключи payload экрана каталога
const (
	keyType   = "type"
	keyDept   = "dept"
	keySearch = "search"
	keySort   = "sort"
	keySel    = "sel"
	keyPage   = "page"
)

var sortButtons = []struct {
	key   items.SortKey
	label string
}{
	{items.SortByName, "А-Я"},
	{items.SortByCode, "Код"},
	{items.SortByDepartment, "Отдел"},
	{items.SortByPrice, "Цена"},
	{items.SortByKind, "Тип"},
}

var sortTitles = map[items.SortKey]string{
	items.SortByName:       "по названию",
	items.SortByCode:       "по коду",
	items.SortByDepartment: "по отделу",
	items.SortByPrice:      "по цене",
	items.SortByKind:       "по типу",
}

func payloadString(p dialog.Payload, key string) string {
	s, _ := dialog.GetString(p, key)
	return s
}

// openInventory восстанавливает экран каталога: снимок, фильтр, сортировку, выбор.
func (b *Bot) openInventory(ctx context.Context, p dialog.Payload) (*items.Inventory, error) {
	inv := items.NewInventory(b.items, b.tag)
	if err := inv.Load(ctx); err != nil {
		return nil, err
	}
	inv.SetFilter(items.Filter{
		Type:       items.ParseTypeFilter(payloadString(p, keyType)),
		Department: payloadString(p, keyDept),
		Search:     payloadString(p, keySearch),
	})
	if key := items.SortKey(payloadString(p, keySort)); key.Valid() {
		inv.SortBy(key)
	}
	inv.Select(dialog.GetStrings(p, keySel)...)
	return inv, nil
}

func inventoryPayload(p dialog.Payload, inv *items.Inventory) dialog.Payload {
	f := inv.Filter()
	p[keyType] = string(f.Type)
	p[keyDept] = f.Department
	p[keySearch] = f.Search
	p[keySort] = string(inv.SortKey())
	p[keySel] = inv.Selected()
	return p
}

// renderInventory открывает каталог, применяет mutate (смена фильтра,
// сортировки, выбора) и показывает текущую страницу.
func (b *Bot) renderInventory(ctx context.Context, chatID int64, editMsgID *int, p dialog.Payload, mutate func(inv *items.Inventory)) {
	if p == nil {
		p = dialog.Payload{}
	}
	inv, err := b.openInventory(ctx, p)
	if err != nil {
		b.failStore(chatID, "inventory_load", msgLoadFailed, err)
		return
	}
	if mutate != nil {
		mutate(inv)
	}

	visible := inv.Visible()
	page, _ := dialog.GetInt(p, keyPage)
	from, to, page, pages := pageBounds(len(visible), page, b.pageSize)
	p[keyPage] = page

	b.show(chatID, editMsgID, inventoryText(inv, len(visible)), b.inventoryKeyboard(inv, visible[from:to], page, pages))
	b.setState(ctx, chatID, dialog.StateInvList, inventoryPayload(p, inv))
}

func inventoryText(inv *items.Inventory, shown int) string {
	var nProd, nMat int
	for _, it := range inv.All() {
		if it.Kind == items.KindProduct {
			nProd++
		} else {
			nMat++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Каталог: товаров %d, материалов %d\n", nProd, nMat)

	f := inv.Filter()
	var parts []string
	switch f.Type {
	case items.TypeProducts:
		parts = append(parts, "только товары")
	case items.TypeMaterials:
		parts = append(parts, "только материалы")
	}
	if f.Department != "" {
		parts = append(parts, fmt.Sprintf("отдел «%s»", f.Department))
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("поиск «%s»", f.Search))
	}
	if len(parts) > 0 {
		sb.WriteString("Фильтр: " + strings.Join(parts, ", ") + "\n")
	}
	if t, ok := sortTitles[inv.SortKey()]; ok {
		sb.WriteString("Сортировка: " + t + "\n")
	}
	fmt.Fprintf(&sb, "Показано: %d · выбрано: %d", shown, len(inv.Selected()))
	if shown == 0 {
		sb.WriteString("\n\nНичего не найдено.")
	}
	return sb.String()
}

func itemLabel(it items.Item, selected bool) string {
	kind := "М"
	if it.Kind == items.KindProduct {
		kind = "Т"
	}
	return fmt.Sprintf("%s [%s] %s · %s · %s", checkbox(selected), kind, it.Name, it.Code, money(it.Price))
}

func (b *Bot) inventoryKeyboard(inv *items.Inventory, page []items.Item, cur, pages int) tgbotapi.InlineKeyboardMarkup {
	f := inv.Filter()
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark(f.Type == items.TypeAll, "Все"), "inv:type:all"),
			tgbotapi.NewInlineKeyboardButtonData(mark(f.Type == items.TypeProducts, "Товары"), "inv:type:products"),
			tgbotapi.NewInlineKeyboardButtonData(mark(f.Type == items.TypeMaterials, "Материалы"), "inv:type:materials"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔎 Поиск", "inv:search"),
			tgbotapi.NewInlineKeyboardButtonData("🏷 Отдел", "inv:dept"),
			tgbotapi.NewInlineKeyboardButtonData("♻️ Сброс", "inv:reset"),
		),
	}

	sortRow := []tgbotapi.InlineKeyboardButton{}
	for _, s := range sortButtons {
		sortRow = append(sortRow, tgbotapi.NewInlineKeyboardButtonData(mark(inv.SortKey() == s.key, s.label), "inv:sort:"+string(s.key)))
	}
	rows = append(rows, sortRow)

	for _, it := range page {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(itemLabel(it, inv.IsSelected(it.ID)), "inv:tog:"+it.ID),
		))
	}
	if pages > 1 {
		rows = append(rows, pagerRow("inv:page", cur, pages))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Выбрать видимые", "inv:selall"),
		tgbotapi.NewInlineKeyboardButtonData("Снять выбор", "inv:selnone"),
	))
	if n := len(inv.Selected()); n > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🏷 Отдел (%d)", n), "inv:bulk:dept"),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("💰 Цена (%d)", n), "inv:bulk:price"),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🗑 Удалить (%d)", n), "inv:bulk:del"),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬇️ Excel", "inv:export"),
			tgbotapi.NewInlineKeyboardButtonData("⬆️ Цены из Excel", "inv:import"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Товар", "item:new:product"),
			tgbotapi.NewInlineKeyboardButtonData("➕ Материал", "item:new:material"),
		),
		navRow(false, true),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) onInventoryCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, st *dialog.Item, rest string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	p := st.Payload
	if p == nil {
		p = dialog.Payload{}
	}

	action, arg, _ := strings.Cut(rest, ":")
	switch action {
	case "open":
		b.renderInventory(ctx, chatID, &mid, dialog.Payload{}, nil)

	case "type":
		p[keyPage] = 0
		b.renderInventory(ctx, chatID, &mid, p, func(inv *items.Inventory) {
			f := inv.Filter()
			f.Type = items.ParseTypeFilter(arg)
			inv.SetFilter(f)
		})

	case "reset":
		p[keyPage] = 0
		b.renderInventory(ctx, chatID, &mid, p, func(inv *items.Inventory) {
			inv.SetFilter(items.Filter{Type: items.TypeAll})
		})

	case "sort":
		b.renderInventory(ctx, chatID, &mid, p, func(inv *items.Inventory) {
			inv.SortBy(items.SortKey(arg))
		})

	case "page":
		n, _ := strconv.Atoi(arg)
		p[keyPage] = n
		b.renderInventory(ctx, chatID, &mid, p, nil)

	case "tog":
		b.renderInventory(ctx, chatID, &mid, p, func(inv *items.Inventory) {
			inv.Toggle(arg)
		})

	case "selall":
		b.renderInventory(ctx, chatID, &mid, p, func(inv *items.Inventory) {
			inv.SelectVisible()
		})

	case "selnone":
		b.renderInventory(ctx, chatID, &mid, p, func(inv *items.Inventory) {
			inv.ClearSelection()
		})

	case "search":
		b.setState(ctx, chatID, dialog.StateInvSearch, p)
		b.editTextWithNav(chatID, mid, "Введите часть названия или кода («-» — без поиска):")

	case "dept":
		b.setState(ctx, chatID, dialog.StateInvDept, p)
		b.editTextWithNav(chatID, mid, "Введите отдел или его часть («-» — все отделы):")

	case "bulk":
		n := len(dialog.GetStrings(p, keySel))
		if n == 0 {
			_ = b.answerCallback(cb, "Ничего не выбрано", false)
			return
		}
		switch arg {
		case "dept":
			b.setState(ctx, chatID, dialog.StateInvBulkDept, p)
			b.editTextWithNav(chatID, mid, fmt.Sprintf("Новый отдел для выбранных (%d):", n))
		case "price":
			b.setState(ctx, chatID, dialog.StateInvBulkPrice, p)
			b.editTextWithNav(chatID, mid, fmt.Sprintf("Новая цена для выбранных (%d):", n))
		case "del":
			b.setState(ctx, chatID, dialog.StateInvBulkDelete, p)
			b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid,
				fmt.Sprintf("Удалить выбранные записи (%d)? Рецепты, где они используются, сохранят свои цены.", n),
				confirmKeyboard("inv:bulkdel")))
		}

	case "bulkdel":
		if st.State != dialog.StateInvBulkDelete {
			return
		}
		b.runBulk(ctx, chatID, p, "delete", func(inv *items.Inventory) (items.Result, error) {
			return inv.BulkDelete(ctx)
		})

	case "export":
		b.exportInventory(ctx, chatID, p)

	case "import":
		b.setState(ctx, chatID, dialog.StateInvImportFile, p)
		b.editTextWithNav(chatID, mid,
			"Пришлите .xlsx с колонками id и price (подойдёт файл из «⬇️ Excel» с исправленными ценами).")
	}
}

func (b *Bot) onInventoryText(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	p := st.Payload
	if text == "-" {
		text = ""
	}

	switch st.State {
	case dialog.StateInvSearch:
		p[keyPage] = 0
		b.renderInventory(ctx, chatID, nil, p, func(inv *items.Inventory) {
			f := inv.Filter()
			f.Search = text
			inv.SetFilter(f)
		})

	case dialog.StateInvDept:
		p[keyPage] = 0
		b.renderInventory(ctx, chatID, nil, p, func(inv *items.Inventory) {
			f := inv.Filter()
			f.Department = text
			inv.SetFilter(f)
		})

	case dialog.StateInvBulkDept:
		if text == "" {
			b.send(tgbotapi.NewMessage(chatID, "Отдел не может быть пустым. Введите название отдела:"))
			return
		}
		dept := text
		b.runBulk(ctx, chatID, p, "edit", func(inv *items.Inventory) (items.Result, error) {
			return inv.BulkEdit(ctx, items.Patch{Department: &dept})
		})

	case dialog.StateInvBulkPrice:
		price := recipes.ParseNumber(text)
		if !price.IsPositive() {
			b.send(tgbotapi.NewMessage(chatID, "Цена должна быть больше нуля. Введите цену:"))
			return
		}
		b.runBulk(ctx, chatID, p, "edit", func(inv *items.Inventory) (items.Result, error) {
			return inv.BulkEdit(ctx, items.Patch{Price: &price})
		})
	}
}

// runBulk выполняет пакетную операцию над выбранным и показывает итог и каталог заново.
func (b *Bot) runBulk(ctx context.Context, chatID int64, p dialog.Payload, op string, run func(inv *items.Inventory) (items.Result, error)) {
	inv, err := b.openInventory(ctx, p)
	if err != nil {
		b.failStore(chatID, "inventory_load", msgLoadFailed, err)
		return
	}

	res, reloadErr := run(inv)
	metrics.ObserveBulk(op, len(res.Processed), len(res.Skipped), len(res.Failed))
	if err := res.Err(); err != nil {
		b.log.Error("bulk operation failed", "op", op, "failed", len(res.Failed), "err", err)
	}
	if reloadErr != nil {
		b.failStore(chatID, "inventory_load", msgLoadFailed, reloadErr)
		return
	}

	b.send(tgbotapi.NewMessage(chatID, bulkSummary(op, res)))
	p[keySel] = []string{}
	b.renderInventory(ctx, chatID, nil, p, nil)
}

func bulkSummary(op string, res items.Result) string {
	verb := "Обновлено"
	if op == "delete" {
		verb = "Удалено"
	}
	s := fmt.Sprintf("%s: %d", verb, len(res.Processed))
	if n := len(res.Skipped); n > 0 {
		s += fmt.Sprintf("\nПропущено (уже нет в каталоге): %d", n)
	}
	if n := len(res.Failed); n > 0 {
		s += fmt.Sprintf("\nНе удалось: %d, попробуйте ещё раз", n)
	}
	return s
}

func (b *Bot) exportInventory(ctx context.Context, chatID int64, p dialog.Payload) {
	inv, err := b.openInventory(ctx, p)
	if err != nil {
		b.failStore(chatID, "inventory_load", msgLoadFailed, err)
		return
	}
	data, err := export.Inventory(inv.Visible())
	if err != nil {
		b.log.Error("inventory export failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Ошибка формирования файла"))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("inventory_%s.xlsx", time.Now().Format("20060102_150405")),
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("Каталог: %d записей с текущим фильтром.\nИзмените колонку price и загрузите файл через «⬆️ Цены из Excel».", len(inv.Visible()))
	b.send(doc)
}

func (b *Bot) importPrices(ctx context.Context, chatID int64, st *dialog.Item, doc *tgbotapi.Document) {
	data, err := b.downloadTelegramFile(doc.FileID)
	if err != nil {
		b.log.Error("download failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось скачать файл, попробуйте ещё раз."))
		return
	}
	b.applyPriceFile(ctx, chatID, st.Payload, data)
}

func (b *Bot) applyPriceFile(ctx context.Context, chatID int64, p dialog.Payload, data []byte) {
	rows, err := export.ReadPrices(data)
	if err != nil {
		metrics.ValidationFailures.WithLabelValues("price_import").Inc()
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Не удалось разобрать файл: %v", err)))
		return
	}

	inv, err := b.openInventory(ctx, p)
	if err != nil {
		b.failStore(chatID, "inventory_load", msgLoadFailed, err)
		return
	}
	res := export.ApplyPrices(ctx, b.items, inv.All(), rows)
	metrics.ObserveBulk("import", len(res.Processed), len(res.Skipped), len(res.Failed))
	if err := res.Err(); err != nil {
		b.log.Error("price import failed", "failed", len(res.Failed), "err", err)
	}

	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Строк с ценой: %d\n%s", len(rows), bulkSummary("edit", res))))
	b.renderInventory(ctx, chatID, nil, p, nil)
}
