package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"reflect"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xtding233/waves-rank/internal/avatar"
	"github.com/xtding233/waves-rank/internal/bind"
	"github.com/xtding233/waves-rank/internal/config"
	"github.com/xtding233/waves-rank/internal/gachalog"
	"github.com/xtding233/waves-rank/internal/gear"
	"github.com/xtding233/waves-rank/internal/logging"
	"github.com/xtding233/waves-rank/internal/metrics"
	"github.com/xtding233/waves-rank/internal/playerdata"
	"github.com/xtding233/waves-rank/internal/plugin"
	"github.com/xtding233/waves-rank/internal/rank"
	"github.com/xtding233/waves-rank/internal/rankcache"
	"github.com/xtding233/waves-rank/internal/render"
	"github.com/xtding233/waves-rank/internal/wwapi"
)

func main() {
	configs := pflag.StringSliceP("config", "c", []string{"config.yaml"}, "config files, later ones override earlier ones")
	watch := pflag.Bool("watch", true, "reload config files when they change")
	pflag.Parse()

	if err := run(*configs, *watch); err != nil {
		fmt.Fprintf(os.Stderr, "waves-rank: %+v\n", err)
		os.Exit(1)
	}
}

func run(paths []string, watch bool) error {
	cfg, err := config.Load(paths...)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := config.NewProvider(cfg)
	prev := provider.Get()
	provider.OnChange(func(c *config.Config) {
		log.Info("config reloaded", zap.String("prefix", c.Prefix), zap.Int("gacha_rank_min", c.GachaRankMin))
		if changed := restartOnly(prev, c); len(changed) > 0 {
			log.Warn("config keys changed that only apply after restart", zap.Strings("keys", changed))
		}
		prev = c
	})

	m := metrics.New()
	binds, err := bind.Open(ctx, cfg.Bind)
	if err != nil {
		return err
	}
	defer func() { _ = binds.Close() }()

	weights, err := gear.LoadWeightTable(cfg.Gear.WeightsFile)
	if err != nil {
		return err
	}
	renderer, err := render.Dial(cfg.Render, log)
	if err != nil {
		return err
	}
	defer func() { _ = renderer.Close() }()

	files := playerdata.New(cfg.DataDir)
	api := wwapi.New(cfg.API, log, m)
	p := plugin.New(plugin.Deps{
		Config:   provider,
		Binds:    binds,
		Files:    files,
		Ranks:    rank.NewService(binds, files, rankcache.New(files, log, m), gear.NewCalculator(weights), provider, log),
		Importer: gachalog.NewImporter(files, api, gachalog.NewCooldown(cfg.API.ImportCooldown), log, m),
		Remote:   api,
		Avatars:  avatar.New(api, cfg.API.AvatarURL, cfg.QQPicCache, cfg.Rank.Concurrency, log, m),
		Renderer: renderer,
		Log:      log,
		Metrics:  m,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           newRouter(p, provider, m, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("data_dir", filepath.Clean(cfg.DataDir)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	if watch {
		w, err := config.NewWatcher(provider, log, paths...)
		if err != nil {
			return err
		}
		g.Go(func() error { return w.Run(ctx) })
	}
	return g.Wait()
}

// restartOnly lists keys that differ between a and b but are only read at startup.
func restartOnly(a, b *config.Config) []string {
	var out []string
	check := func(key string, x, y any) {
		if !reflect.DeepEqual(x, y) {
			out = append(out, key)
		}
	}
	check("data_dir", a.DataDir, b.DataDir)
	check("qq_pic_cache", a.QQPicCache, b.QQPicCache)
	check("rank.concurrency", a.Rank.Concurrency, b.Rank.Concurrency)
	check("api", a.API, b.API)
	check("bind", a.Bind, b.Bind)
	check("render", a.Render, b.Render)
	check("log", a.Log, b.Log)
	check("http", a.HTTP, b.HTTP)
	check("gear.weights_file", a.Gear.WeightsFile, b.Gear.WeightsFile)
	return out
}
