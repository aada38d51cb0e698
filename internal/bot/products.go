package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/costbook/internal/dialog"
	"github.com/Spok95/costbook/internal/domain/catalog"
	"github.com/Spok95/costbook/internal/domain/items"
	"github.com/Spok95/costbook/internal/domain/products"
	"github.com/Spok95/costbook/internal/domain/recipes"
	"github.com/Spok95/costbook/internal/export"
	"github.com/Spok95/costbook/internal/infra/metrics"
)

const keyProductID = "product_id"

func (b *Bot) showProducts(ctx context.Context, chatID int64, editMsgID *int) {
	list, err := b.products.List(ctx)
	if err != nil {
		b.failStore(chatID, "products_list", msgLoadFailed, err)
		return
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, d := range list {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s (%s)", d.Name, d.Code), "pd:card:"+d.ID),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Новый продукт", "pd:new")),
		navRow(false, true),
	)

	text := "Продукты — выберите продукт или создайте новый:"
	if len(list) == 0 {
		text = "Продуктов пока нет. Создайте первый:"
	}
	b.setState(ctx, chatID, dialog.StateProdList, dialog.Payload{})
	b.show(chatID, editMsgID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) onProductCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, st *dialog.Item, rest string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	p := st.Payload

	action, arg, _ := strings.Cut(rest, ":")
	switch action {
	case "list":
		b.showProducts(ctx, chatID, &mid)

	case "new":
		b.setState(ctx, chatID, dialog.StateProdName, dialog.Payload{})
		b.editTextWithNav(chatID, mid, "Новый продукт. Введите название:")

	case "card":
		b.showProductCard(ctx, chatID, &mid, arg)

	case "sale":
		if st.State != dialog.StateProdSale {
			return
		}
		p["sale"] = arg
		b.setState(ctx, chatID, dialog.StateProdSegment, p)
		b.showDepartmentPick(ctx, chatID, &mid, catalog.DeptProduction)

	case "seg":
		if st.State != dialog.StateProdSegment {
			return
		}
		p["segment"] = arg
		b.createProduct(ctx, chatID, p)

	case "newdept":
		t := catalog.DepartmentType(arg)
		if !t.Valid() {
			return
		}
		p["dept_type"] = string(t)
		b.setState(ctx, chatID, dialog.StateProdNewDept, p)
		b.editTextWithNav(chatID, mid, "Название нового отдела:")

	case "xlsx":
		b.exportRecipes(ctx, chatID, arg)
	}
}

func (b *Bot) onProductText(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	p := st.Payload

	switch st.State {
	case dialog.StateProdName:
		if text == "" {
			b.send(tgbotapi.NewMessage(chatID, "Название продукта обязательно. Введите название:"))
			return
		}
		p["name"] = text
		b.setState(ctx, chatID, dialog.StateProdCode, p)
		b.show(chatID, nil, "Код продукта:", navKeyboard(true, true))

	case dialog.StateProdCode:
		// уникальность кода проверяем сразу, не дожидаясь выбора отделов
		errs, err := b.products.Validate(ctx, products.NewDefinition{Code: text})
		if err != nil {
			b.failStore(chatID, "products_list", msgLoadFailed, err)
			return
		}
		if msg, bad := errs["code"]; bad {
			metrics.ValidationFailures.WithLabelValues("product").Inc()
			b.send(tgbotapi.NewMessage(chatID, msg+". Введите другой код:"))
			return
		}
		p["code"] = text
		b.setState(ctx, chatID, dialog.StateProdSale, p)
		b.showDepartmentPick(ctx, chatID, nil, catalog.DeptSale)

	case dialog.StateProdNewDept:
		t := catalog.DepartmentType(payloadString(p, "dept_type"))
		d, err := catalog.AddDepartment(ctx, b.catalog, text, t)
		if verr, ok := asValidation(err, "department"); ok {
			b.send(tgbotapi.NewMessage(chatID, formatErrors(verr)+"\nВведите название отдела:"))
			return
		}
		if err != nil {
			b.failStore(chatID, "department_create", msgSaveFailed, err)
			return
		}
		delete(p, "dept_type")
		if t == catalog.DeptSale {
			p["sale"] = d.ID
			b.setState(ctx, chatID, dialog.StateProdSegment, p)
			b.showDepartmentPick(ctx, chatID, nil, catalog.DeptProduction)
			return
		}
		p["segment"] = d.ID
		b.createProduct(ctx, chatID, p)
	}
}

func (b *Bot) showDepartmentPick(ctx context.Context, chatID int64, editMsgID *int, t catalog.DepartmentType) {
	list, err := b.catalog.ListDepartments(ctx, t)
	if err != nil {
		b.failStore(chatID, "departments_list", msgLoadFailed, err)
		return
	}

	prefix, title := "pd:sale:", "Выберите отдел продаж:"
	if t == catalog.DeptProduction {
		prefix, title = "pd:seg:", "Выберите производственный участок:"
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, d := range list {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(d.Name, prefix+d.ID),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Новый отдел", "pd:newdept:"+string(t))),
		navRow(true, true),
	)
	b.show(chatID, editMsgID, title, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) createProduct(ctx context.Context, chatID int64, p dialog.Payload) {
	d, err := b.products.Create(ctx, products.NewDefinition{
		Name:              payloadString(p, "name"),
		Code:              payloadString(p, "code"),
		SaleDepartment:    payloadString(p, "sale"),
		ProductionSegment: payloadString(p, "segment"),
	})
	if verr, ok := asValidation(err, "product"); ok {
		text := formatErrors(verr)
		if verr.Has("code") {
			b.setState(ctx, chatID, dialog.StateProdCode, p)
			b.send(tgbotapi.NewMessage(chatID, text+"\nВведите другой код:"))
			return
		}
		b.setState(ctx, chatID, dialog.StateProdName, dialog.Payload{})
		b.send(tgbotapi.NewMessage(chatID, text+"\nНачнём заново. Введите название:"))
		return
	}
	if err != nil {
		b.failStore(chatID, "product_create", msgSaveFailed, err)
		return
	}
	b.showProductCard(ctx, chatID, nil, d.ID)
}

// showProductCard: карточка продукта с рецептами и их себестоимостью.
func (b *Bot) showProductCard(ctx context.Context, chatID int64, editMsgID *int, productID string) {
	def, err := b.products.Get(ctx, productID)
	if err != nil {
		b.failStore(chatID, "product_get", msgLoadFailed, err)
		return
	}
	if def == nil {
		b.show(chatID, editMsgID, "Продукт не найден.", navKeyboard(false, true))
		return
	}

	list, err := b.recipes.ListRecipes(ctx, def.ID)
	if err != nil {
		b.failStore(chatID, "recipes_list", msgLoadFailed, err)
		return
	}
	materials, err := b.items.ListMaterials(ctx)
	if err != nil {
		b.failStore(chatID, "materials_list", msgLoadFailed, err)
		return
	}
	units, err := b.catalog.ListMaterialUnits(ctx)
	if err != nil {
		b.failStore(chatID, "units_list", msgLoadFailed, err)
		return
	}
	sale, _ := b.catalog.ListDepartments(ctx, catalog.DeptSale)
	prod, _ := b.catalog.ListDepartments(ctx, catalog.DeptProduction)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n", def.Name, def.Code)
	fmt.Fprintf(&sb, "Отдел продаж: %s\n", catalog.DepartmentName(sale, def.SaleDepartment))
	fmt.Fprintf(&sb, "Участок: %s\n", catalog.DepartmentName(prod, def.ProductionSegment))

	if len(list) == 0 {
		sb.WriteString("\nРецептов пока нет.")
	}
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for i, r := range list {
		fmt.Fprintf(&sb, "\n%d) %s — себестоимость %s\n", i+1, r.Name, money(recipes.TotalCost(r.Materials)))
		sb.WriteString(describeLines(r.Materials, materials, units))
		if r.Notes != "" {
			fmt.Fprintf(&sb, "   %s\n", r.Notes)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ "+r.Name, "rc:edit:"+r.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑", "rc:del:"+r.ID),
		))
	}

	actions := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Рецепт", "rc:new"),
	)
	if len(list) > 0 {
		actions = append(actions, tgbotapi.NewInlineKeyboardButtonData("⬇️ Excel", "pd:xlsx:"+def.ID))
	}
	rows = append(rows, actions)
	if b.publicURL != "" && len(list) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 Выгрузка по ссылке",
				strings.TrimRight(b.publicURL, "/")+"/export/recipes.xlsx?product="+def.ID),
		))
	}
	rows = append(rows, navRow(true, true))

	b.setState(ctx, chatID, dialog.StateProdCard, dialog.Payload{keyProductID: def.ID})
	b.show(chatID, editMsgID, strings.TrimRight(sb.String(), "\n"), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func describeLines(lines []recipes.Line, materials []items.Item, units []catalog.MaterialUnit) string {
	var sb strings.Builder
	for _, v := range recipes.Describe(lines, materials, units) {
		fmt.Fprintf(&sb, "   • %s — %s %s × %s = %s\n",
			v.MaterialName, v.Amount.String(), v.UnitSymbol, money(v.UnitPrice), money(v.TotalPrice))
	}
	return sb.String()
}

func (b *Bot) exportRecipes(ctx context.Context, chatID int64, productID string) {
	def, err := b.products.Get(ctx, productID)
	if err != nil || def == nil {
		b.send(tgbotapi.NewMessage(chatID, "Продукт не найден."))
		return
	}
	list, err := b.recipes.ListRecipes(ctx, def.ID)
	if err != nil {
		b.failStore(chatID, "recipes_list", msgLoadFailed, err)
		return
	}
	materials, err := b.items.ListMaterials(ctx)
	if err != nil {
		b.failStore(chatID, "materials_list", msgLoadFailed, err)
		return
	}
	units, err := b.catalog.ListMaterialUnits(ctx)
	if err != nil {
		b.failStore(chatID, "units_list", msgLoadFailed, err)
		return
	}

	data, err := export.Recipes(*def, list, materials, units)
	if err != nil {
		b.log.Error("recipes export failed", "product_id", def.ID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Ошибка формирования файла"))
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("recipes_%s.xlsx", def.Code),
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("Рецепты продукта «%s» с себестоимостью.", def.Name)
	b.send(doc)
}
