// Command formserver serves the rule sets of a directory as live form sessions.
//
// Configuration comes from the environment (and an optional .env file). The
// unique-value resolvers are registered only when their backend is configured:
//
//	UNIQUE_REDIS_SET=reserved_usernames   resolver "unique_redis"
//	PG_CONN_URL=... UNIQUE_PG_TABLE=auth.users UNIQUE_PG_COLUMN=email
//	                                      resolver "unique_pg"
//	MONGODB_URL=... UNIQUE_MONGO_DATABASE=app UNIQUE_MONGO_COLLECTION=accounts UNIQUE_MONGO_FIELD=nickname
//	                                      resolver "unique_mongo"
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/formvalidate/pkg/config"
	"github.com/dmitrymomot/formvalidate/pkg/form"
	"github.com/dmitrymomot/formvalidate/pkg/formhttp"
	"github.com/dmitrymomot/formvalidate/pkg/httpserver"
	"github.com/dmitrymomot/formvalidate/pkg/i18n"
	"github.com/dmitrymomot/formvalidate/pkg/logger"
	"github.com/dmitrymomot/formvalidate/pkg/resolver"
	"github.com/dmitrymomot/formvalidate/pkg/ruleset"
)

type appConfig struct {
	LocalesDir      string `env:"I18N_LOCALES_DIR" envDefault:"./locales"`
	DefaultLanguage string `env:"I18N_DEFAULT_LANGUAGE" envDefault:"en"`

	RedisSet        string `env:"UNIQUE_REDIS_SET"`
	PGTable         string `env:"UNIQUE_PG_TABLE"`
	PGColumn        string `env:"UNIQUE_PG_COLUMN"`
	MongoDatabase   string `env:"UNIQUE_MONGO_DATABASE"`
	MongoCollection string `env:"UNIQUE_MONGO_COLLECTION"`
	MongoField      string `env:"UNIQUE_MONGO_FIELD"`
}

func main() {
	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.NewFromConfig(logCfg,
		logger.WithContextExtractors(formhttp.RequestIDExtractor()),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Error("Form server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var (
		app     appConfig
		srvCfg  httpserver.Config
		httpCfg formhttp.Config
		formCfg form.Config
	)
	if err := errors.Join(
		config.Load(&app),
		config.Load(&srvCfg),
		config.Load(&httpCfg),
		config.Load(&formCfg),
	); err != nil {
		return err
	}

	resolvers, checks, cleanup, err := connectResolvers(ctx, app, log)
	if err != nil {
		return err
	}
	defer cleanup()

	loadOpts := []ruleset.Option{ruleset.WithLogger(log)}
	for name, factory := range resolvers {
		loadOpts = append(loadOpts, ruleset.WithResolver(name, factory))
	}
	sets, err := ruleset.Load(os.DirFS(httpCfg.RulesDir), loadOpts...)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "Rule sets loaded", slog.Any("rulesets", sets.Names()))

	svcOpts := []formhttp.Option{
		formhttp.WithConfig(httpCfg),
		formhttp.WithLogger(log),
		formhttp.WithFullMessages(formCfg.FullMessages),
		formhttp.WithFormOptions(form.WithAsyncTimeout(formCfg.AsyncTimeout)),
	}
	langOpts := []i18n.ExtractorOption{i18n.WithExtractorDefault(app.DefaultLanguage)}

	tr, err := loadTranslator(ctx, app, log)
	switch {
	case err != nil:
		return err
	case tr != nil:
		svcOpts = append(svcOpts, formhttp.WithTranslator(tr))
		langOpts = append(langOpts, i18n.WithSupportedLanguages(tr.SupportedLanguages()...))
	}

	svc := formhttp.NewService(sets, svcOpts...)

	r := chi.NewRouter()
	r.Use(formhttp.RequestID, middleware.Recoverer)
	r.Get("/health/live", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, checks...))
	r.Group(func(r chi.Router) {
		r.Use(i18n.Middleware(i18n.DefaultLangExtractor(langOpts...)))
		r.Mount("/forms", svc.Handle())
	})

	srv := httpserver.NewFromConfig(srvCfg,
		httpserver.WithLogger(log),
		httpserver.WithOnShutdown(func() { _ = svc.Close() }),
	)
	return srv.Run(ctx, r)
}

// loadTranslator returns nil when the locales directory does not exist.
func loadTranslator(ctx context.Context, app appConfig, log *slog.Logger) (*i18n.Translator, error) {
	if _, err := os.Stat(app.LocalesDir); errors.Is(err, fs.ErrNotExist) {
		log.InfoContext(ctx, "No locales directory, messages stay in English", slog.String("dir", app.LocalesDir))
		return nil, nil
	}
	return i18n.NewTranslator(ctx, i18n.NewFSAdapter(os.DirFS(app.LocalesDir)),
		i18n.WithDefaultLanguage(app.DefaultLanguage),
		i18n.WithLogger(log),
	)
}

// connectResolvers connects the configured backends and returns their
// resolver factories, readiness checks and a cleanup func.
func connectResolvers(ctx context.Context, app appConfig, log *slog.Logger) (ruleset.Resolvers, []httpserver.Check, func(), error) {
	resolvers := make(ruleset.Resolvers)
	var (
		checks  []httpserver.Check
		closers []func()
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (ruleset.Resolvers, []httpserver.Check, func(), error) {
		cleanup()
		return nil, nil, func() {}, err
	}

	if app.RedisSet != "" {
		var cfg resolver.RedisConfig
		if err := config.Load(&cfg); err != nil {
			return fail(err)
		}
		client, err := resolver.ConnectRedis(ctx, cfg)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = client.Close() })
		resolvers["unique_redis"] = resolver.Factory(resolver.NewRedisSet(client, app.RedisSet))
		checks = append(checks, httpserver.Check{Name: "redis", Fn: resolver.RedisHealthcheck(client)})
		log.InfoContext(ctx, "Redis resolver registered", slog.String("set", app.RedisSet))
	}

	if app.PGTable != "" && app.PGColumn != "" {
		var cfg resolver.PostgresConfig
		if err := config.Load(&cfg); err != nil {
			return fail(err)
		}
		pool, err := resolver.ConnectPostgres(ctx, cfg)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, pool.Close)
		resolvers["unique_pg"] = resolver.Factory(resolver.NewPostgresColumn(pool, app.PGTable, app.PGColumn))
		checks = append(checks, httpserver.Check{Name: "postgres", Fn: resolver.PostgresHealthcheck(pool)})
		log.InfoContext(ctx, "Postgres resolver registered",
			slog.String("table", app.PGTable), slog.String("column", app.PGColumn))
	}

	if app.MongoDatabase != "" && app.MongoCollection != "" && app.MongoField != "" {
		var cfg resolver.MongoConfig
		if err := config.Load(&cfg); err != nil {
			return fail(err)
		}
		client, err := resolver.ConnectMongo(ctx, cfg)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = client.Disconnect(context.Background()) })
		coll := client.Database(app.MongoDatabase).Collection(app.MongoCollection)
		resolvers["unique_mongo"] = resolver.Factory(resolver.NewMongoField(resolver.CollectionCounter(coll), app.MongoField))
		checks = append(checks, httpserver.Check{Name: "mongo", Fn: resolver.MongoHealthcheck(client)})
		log.InfoContext(ctx, "Mongo resolver registered",
			slog.String("collection", app.MongoCollection), slog.String("field", app.MongoField))
	}

	return resolvers, checks, cleanup, nil
}
