package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/costbook/internal/dialog"
	"github.com/Spok95/costbook/internal/domain/catalog"
	"github.com/Spok95/costbook/internal/domain/recipes"
	"github.com/Spok95/costbook/internal/infra/metrics"
)

const (
	keyDraft = "draft"
	keyLine  = "line"
)

// composerFor собирает редактор рецепта с черновиком из payload.
func (b *Bot) composerFor(ctx context.Context, p dialog.Payload) (*recipes.Composer, error) {
	materials, err := b.items.ListMaterials(ctx)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	units, err := b.catalog.ListMaterialUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	c := recipes.NewComposer(b.recipes, materials, units)

	var d recipes.Draft
	if _, err := dialog.Decode(p, keyDraft, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	c.Restore(d)
	return c, nil
}

// saveDraft кладёт черновик обратно в состояние диалога.
func (b *Bot) saveDraft(ctx context.Context, chatID int64, state dialog.State, p dialog.Payload, c *recipes.Composer) {
	if err := dialog.Put(p, keyDraft, c.Draft()); err != nil {
		b.log.Error("encode draft failed", "err", err)
		return
	}
	b.setState(ctx, chatID, state, p)
}

func (b *Bot) onRecipeCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, st *dialog.Item, rest string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	p := st.Payload
	productID := payloadString(p, keyProductID)
	if productID == "" {
		b.editTextAndClear(chatID, mid, "Сначала откройте продукт в разделе «Продукты».")
		return
	}

	c, err := b.composerFor(ctx, p)
	if err != nil {
		b.failStore(chatID, "composer_load", msgLoadFailed, err)
		return
	}

	action, arg, _ := strings.Cut(rest, ":")
	switch action {
	case "new":
		c.Reset()

	case "edit":
		list, err := b.recipes.ListRecipes(ctx, productID)
		if err != nil {
			b.failStore(chatID, "recipes_list", msgLoadFailed, err)
			return
		}
		found := false
		for _, r := range list {
			if r.ID == arg {
				c.LoadForEdit(r)
				found = true
				break
			}
		}
		if !found {
			_ = b.answerCallback(cb, "Рецепт не найден", true)
			b.showProductCard(ctx, chatID, &mid, productID)
			return
		}

	case "del":
		b.saveDraft(ctx, chatID, st.State, p, c)
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, "Удалить рецепт целиком?", confirmKeyboard("rc:delyes:"+arg)))
		return

	case "delyes":
		if err := c.Delete(ctx, arg); err != nil && !errors.Is(err, recipes.ErrNotFound) {
			b.failStore(chatID, "recipe_delete", msgSaveFailed, err)
			return
		}
		delete(p, keyDraft)
		b.showProductCard(ctx, chatID, &mid, productID)
		return

	case "add":
		if !c.AddLine() {
			_ = b.answerCallback(cb, "В каталоге нет материалов", true)
			return
		}

	case "rm":
		c.RemoveLine(atoi(arg))

	case "amt", "price":
		i := atoi(arg)
		if i < 0 || i >= len(c.Lines()) {
			return
		}
		p[keyLine] = i
		state, prompt := dialog.StateRecipeAmount, fmt.Sprintf("Количество для строки %d:", i+1)
		if action == "price" {
			state, prompt = dialog.StateRecipePrice, fmt.Sprintf("Цена за единицу для строки %d (ручная, каталог не меняется):", i+1)
		}
		b.saveDraft(ctx, chatID, state, p, c)
		b.editTextWithNav(chatID, mid, prompt)
		return

	case "pick":
		line, page, _ := strings.Cut(arg, ":")
		b.saveDraft(ctx, chatID, dialog.StateRecipeEdit, p, c)
		b.showMaterialPick(ctx, chatID, mid, atoi(line), atoi(page))
		return

	case "mat":
		line, id, _ := strings.Cut(arg, ":")
		if !c.SetMaterial(atoi(line), id) {
			_ = b.answerCallback(cb, "Материал не найден", true)
		}

	case "units":
		b.saveDraft(ctx, chatID, dialog.StateRecipeEdit, p, c)
		b.showUnitPick(ctx, chatID, mid, atoi(arg))
		return

	case "unit":
		line, id, _ := strings.Cut(arg, ":")
		c.SetUnit(atoi(line), id)

	case "name":
		b.saveDraft(ctx, chatID, dialog.StateRecipeName, p, c)
		b.editTextWithNav(chatID, mid, "Название рецепта:")
		return

	case "notes":
		b.saveDraft(ctx, chatID, dialog.StateRecipeNotes, p, c)
		b.editTextWithNav(chatID, mid, "Заметка к рецепту («-» — без заметки):")
		return

	case "save":
		b.saveRecipe(ctx, chatID, &mid, p, c)
		return
	}

	b.saveDraft(ctx, chatID, dialog.StateRecipeEdit, p, c)
	b.showComposer(chatID, &mid, c)
}

func (b *Bot) onRecipeText(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	p := st.Payload
	c, err := b.composerFor(ctx, p)
	if err != nil {
		b.failStore(chatID, "composer_load", msgLoadFailed, err)
		return
	}
	line, _ := dialog.GetInt(p, keyLine)

	switch st.State {
	case dialog.StateRecipeName:
		c.SetName(text)
	case dialog.StateRecipeNotes:
		if text == "-" {
			text = ""
		}
		c.SetNotes(text)
	case dialog.StateRecipeAmount:
		c.SetAmount(line, recipes.ParseNumber(text))
	case dialog.StateRecipePrice:
		c.SetUnitPrice(line, recipes.ParseNumber(text))
	}
	delete(p, keyLine)

	b.saveDraft(ctx, chatID, dialog.StateRecipeEdit, p, c)
	b.showComposer(chatID, nil, c)
}

// saveRecipe: ошибки формы показываем у черновика, ошибка хранилища —
// общее сообщение, черновик при этом остаётся для повтора.
func (b *Bot) saveRecipe(ctx context.Context, chatID int64, editMsgID *int, p dialog.Payload, c *recipes.Composer) {
	mode := "create"
	if c.IsEditing() {
		mode = "update"
	}

	saved, err := c.Save(ctx, payloadString(p, keyProductID))
	if verr, ok := asValidation(err, "recipe"); ok {
		b.send(tgbotapi.NewMessage(chatID, "Рецепт не сохранён:\n"+formatErrors(verr)))
		b.saveDraft(ctx, chatID, dialog.StateRecipeEdit, p, c)
		b.showComposer(chatID, nil, c)
		return
	}
	if err != nil {
		b.failStore(chatID, "recipe_"+mode, msgSaveFailed, err)
		b.saveDraft(ctx, chatID, dialog.StateRecipeEdit, p, c)
		b.showComposer(chatID, nil, c)
		return
	}

	metrics.RecipeSaves.WithLabelValues(mode).Inc()
	b.log.Info("recipe saved", "recipe_id", saved.ID, "product_id", saved.ProductID, "mode", mode)
	delete(p, keyDraft)
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Рецепт «%s» сохранён. Себестоимость: %s", saved.Name, money(recipes.TotalCost(saved.Materials)))))
	b.showProductCard(ctx, chatID, nil, saved.ProductID)
}

func (b *Bot) showComposer(chatID int64, editMsgID *int, c *recipes.Composer) {
	d := c.Draft()

	var sb strings.Builder
	title := "Новый рецепт"
	if c.IsEditing() {
		title = "Редактирование рецепта"
	}
	sb.WriteString(title + "\n")
	name := d.Name
	if strings.TrimSpace(name) == "" {
		name = "—"
	}
	fmt.Fprintf(&sb, "Название: %s\n", name)
	if d.Notes != "" {
		fmt.Fprintf(&sb, "Заметка: %s\n", d.Notes)
	}
	sb.WriteString("\n")
	if len(d.Lines) == 0 {
		sb.WriteString("Материалов пока нет.\n")
	}
	for i, v := range c.Describe() {
		fmt.Fprintf(&sb, "%d. %s — %s %s × %s = %s\n",
			i+1, v.MaterialName, v.Amount.String(), v.UnitSymbol, money(v.UnitPrice), money(v.TotalPrice))
	}
	fmt.Fprintf(&sb, "\nСебестоимость: %s", money(c.Total()))

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for i := range d.Lines {
		n := strconv.Itoa(i)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d: кол-во", i+1), "rc:amt:"+n),
			tgbotapi.NewInlineKeyboardButtonData("материал", "rc:pick:"+n+":0"),
			tgbotapi.NewInlineKeyboardButtonData("ед.", "rc:units:"+n),
			tgbotapi.NewInlineKeyboardButtonData("цена", "rc:price:"+n),
			tgbotapi.NewInlineKeyboardButtonData("✖️", "rc:rm:"+n),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Материал", "rc:add"),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Название", "rc:name"),
			tgbotapi.NewInlineKeyboardButtonData("📝 Заметка", "rc:notes"),
		),
	)
	last := tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💾 Сохранить", "rc:save"))
	if d.Editing != nil {
		last = append(last, tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить рецепт", "rc:del:"+d.Editing.ID))
	}
	rows = append(rows, last, navRow(true, true))

	b.show(chatID, editMsgID, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) showMaterialPick(ctx context.Context, chatID int64, mid int, line, page int) {
	materials, err := b.items.ListMaterials(ctx)
	if err != nil {
		b.failStore(chatID, "materials_list", msgLoadFailed, err)
		return
	}
	from, to, cur, pages := pageBounds(len(materials), page, b.pageSize)

	n := strconv.Itoa(line)
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, m := range materials[from:to] {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s · %s", m.Name, money(m.Price)), "rc:mat:"+n+":"+m.ID),
		))
	}
	if pages > 1 {
		rows = append(rows, pagerRow("rc:pick:"+n, cur, pages))
	}
	rows = append(rows, navRow(true, true))
	b.show(chatID, &mid, fmt.Sprintf("Материал для строки %d (цена подставится из каталога):", line+1), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) showUnitPick(ctx context.Context, chatID int64, mid int, line int) {
	units, err := b.catalog.ListMaterialUnits(ctx)
	if err != nil {
		b.failStore(chatID, "units_list", msgLoadFailed, err)
		return
	}
	n := strconv.Itoa(line)
	row := []tgbotapi.InlineKeyboardButton{}
	for _, u := range units {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(unitLabel(u), "rc:unit:"+n+":"+u.ID))
	}
	b.show(chatID, &mid, fmt.Sprintf("Единица для строки %d:", line+1),
		tgbotapi.NewInlineKeyboardMarkup(row, navRow(true, true)))
}

func unitLabel(u catalog.MaterialUnit) string {
	if u.Symbol != "" {
		return u.Symbol
	}
	return u.Name
}

// atoi: некорректный индекс превращается в -1, который редактор отвергнет.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
