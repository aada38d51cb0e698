package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/text/language"

	"github.com/Spok95/costbook/internal/domain/catalog"
	"github.com/Spok95/costbook/internal/domain/items"
	"github.com/Spok95/costbook/internal/domain/products"
	"github.com/Spok95/costbook/internal/domain/recipes"
	"github.com/Spok95/costbook/internal/export"
	"github.com/Spok95/costbook/internal/infra/metrics"
)

// ExportHandler отдаёт xlsx-выгрузки каталога и рецептов.
type ExportHandler struct {
	log      *slog.Logger
	items    items.ReadWriter
	products products.Store
	recipes  recipes.Store
	catalog  catalog.Store
	tag      language.Tag
	now      func() time.Time
}

func NewExportHandler(log *slog.Logger, it items.ReadWriter, pr products.Store, rc recipes.Store, cat catalog.Store, tag language.Tag) *ExportHandler {
	return &ExportHandler{
		log:      log,
		items:    it,
		products: pr,
		recipes:  rc,
		catalog:  cat,
		tag:      tag,
		now:      time.Now,
	}
}

// Inventory: /export/inventory.xlsx?type=materials&department=&search=&sort=name
func (h *ExportHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	inv := items.NewInventory(h.items, h.tag)
	if err := inv.Load(ctx); err != nil {
		h.fail(w, "inventory_export", err)
		return
	}
	inv.SetFilter(items.Filter{
		Type:       items.ParseTypeFilter(q.Get("type")),
		Department: q.Get("department"),
		Search:     q.Get("search"),
	})
	if s := items.SortKey(q.Get("sort")); s != "" {
		if !s.Valid() {
			http.Error(w, "unknown sort key", http.StatusBadRequest)
			return
		}
		inv.SortBy(s)
	}

	data, err := export.Inventory(inv.Visible())
	if err != nil {
		h.fail(w, "inventory_export", err)
		return
	}
	h.attach(w, fmt.Sprintf("inventory_%s.xlsx", h.now().Format("20060102_150405")), data)
}

// Recipes: /export/recipes.xlsx?product=<id>
func (h *ExportHandler) Recipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.URL.Query().Get("product")
	if id == "" {
		http.Error(w, "missing product parameter", http.StatusBadRequest)
		return
	}

	def, err := h.products.GetProductDefinition(ctx, id)
	if err != nil {
		h.fail(w, "recipes_export", err)
		return
	}
	if def == nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	list, err := h.recipes.ListRecipes(ctx, def.ID)
	if err != nil {
		h.fail(w, "recipes_export", err)
		return
	}
	materials, err := h.items.ListMaterials(ctx)
	if err != nil {
		h.fail(w, "recipes_export", err)
		return
	}
	units, err := h.catalog.ListMaterialUnits(ctx)
	if err != nil {
		h.fail(w, "recipes_export", err)
		return
	}

	data, err := export.Recipes(*def, list, materials, units)
	if err != nil {
		h.fail(w, "recipes_export", err)
		return
	}
	h.attach(w, fmt.Sprintf("recipes_%s.xlsx", def.Code), data)
}

func (h *ExportHandler) attach(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *ExportHandler) fail(w http.ResponseWriter, op string, err error) {
	metrics.StoreErrors.WithLabelValues(op).Inc()
	h.log.Error("export failed", "op", op, "err", err)
	http.Error(w, "export failed", http.StatusInternalServerError)
}
