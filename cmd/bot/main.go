package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/language"

	"github.com/Spok95/costbook/internal/bot"
	"github.com/Spok95/costbook/internal/config"
	"github.com/Spok95/costbook/internal/dialog"
	"github.com/Spok95/costbook/internal/domain/catalog"
	"github.com/Spok95/costbook/internal/domain/items"
	"github.com/Spok95/costbook/internal/domain/products"
	"github.com/Spok95/costbook/internal/domain/recipes"
	"github.com/Spok95/costbook/internal/infra/db"
	httpx "github.com/Spok95/costbook/internal/infra/http"
	"github.com/Spok95/costbook/internal/infra/logger"
	"github.com/Spok95/costbook/internal/infra/memstore"
)

// stores: набор хранилищ выбранного драйвера.
type stores struct {
	items    items.Store
	catalog  catalog.Store
	products products.Store
	recipes  recipes.Store
	states   dialog.Store
	close    func()
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (*stores, error) {
	if cfg.Storage.Driver == config.DriverMemory {
		log.Warn("using in-memory storage, data will be lost on restart")
		mem := memstore.New()
		return &stores{
			items:    mem,
			catalog:  mem,
			products: mem,
			recipes:  mem,
			states:   dialog.NewMemRepo(),
			close:    func() {},
		}, nil
	}

	if err := db.Migrate(cfg.Postgres.DSN, cfg.Postgres.Migrations); err != nil {
		return nil, err
	}
	log.Info("migrations applied")

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}
	log.Info("db connected")

	return &stores{
		items:    items.NewRepo(pool),
		catalog:  catalog.NewRepo(pool),
		products: products.NewRepo(pool),
		recipes:  recipes.NewRepo(pool),
		states:   dialog.NewRepo(pool),
		close:    pool.Close,
	}, nil
}

func main() {
	path := os.Getenv("APP_CONFIG")
	if path == "" {
		path = "config/example.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	tag, err := language.Parse(cfg.App.Locale)
	if err != nil {
		log.Warn("bad locale, falling back to ru", "locale", cfg.App.Locale, "err", err)
		tag = language.Russian
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Error("storage init failed", "driver", cfg.Storage.Driver, "err", err)
		os.Exit(1)
	}
	defer st.close()

	if err := catalog.EnsureDefaults(ctx, st.catalog); err != nil {
		log.Error("default departments failed", "err", err)
		os.Exit(1)
	}

	exports := httpx.NewExportHandler(log, st.items, st.products, st.recipes, st.catalog, tag)
	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, exports)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram init failed", "err", err)
		os.Exit(1)
	}
	log.Info("telegram authorized", "username", api.Self.UserName)

	b := bot.New(api, bot.Deps{
		Log:       log,
		States:    st.states,
		Items:     st.items,
		Catalog:   st.catalog,
		Products:  st.products,
		Recipes:   st.recipes,
		Locale:    tag,
		PageSize:  cfg.Inventory.PageSize,
		PublicURL: cfg.HTTP.PublicURL,
		Allowed:   cfg.ChatAllowed,
	})
	if err := b.Run(ctx, cfg.Telegram.TimeoutSec); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped", "err", err)
	}
	api.StopReceivingUpdates()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
