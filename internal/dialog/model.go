package dialog

import "context"

type State string

const (
	StateIdle State = "idle"

	// Каталог
	StateInvList       State = "inv_list"
	StateInvSearch     State = "inv_search"      // ввод строки поиска
	StateInvDept       State = "inv_dept"        // ввод фильтра по отделу
	StateInvBulkDept   State = "inv_bulk_dept"   // новый отдел для выбранных
	StateInvBulkPrice  State = "inv_bulk_price"  // новая цена для выбранных
	StateInvBulkDelete State = "inv_bulk_delete" // подтверждение удаления
	StateInvImportFile State = "inv_import_file" // ожидание xlsx с ценами

	// Новая запись каталога
	StateItemName  State = "item_name"
	StateItemCode  State = "item_code"
	StateItemDept  State = "item_dept"
	StateItemPrice State = "item_price"

	// Продукты
	StateProdList    State = "prod_list"
	StateProdCard    State = "prod_card"
	StateProdName    State = "prod_name"
	StateProdCode    State = "prod_code"
	StateProdSale    State = "prod_sale"     // выбор отдела продаж
	StateProdSegment State = "prod_segment"  // выбор производственного участка
	StateProdNewDept State = "prod_new_dept" // ввод названия нового отдела

	// Рецепт
	StateRecipeEdit   State = "recipe_edit"
	StateRecipeName   State = "recipe_name"
	StateRecipeNotes  State = "recipe_notes"
	StateRecipeAmount State = "recipe_amount" // количество для строки line
	StateRecipePrice  State = "recipe_price"  // ручная цена для строки line
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}

// Store: хранилище состояния диалога по чату.
type Store interface {
	Get(ctx context.Context, chatID int64) (*Item, error)
	Set(ctx context.Context, chatID int64, state State, payload Payload) error
	Reset(ctx context.Context, chatID int64) error
}
