package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/waves-rank/internal/bind"
	"github.com/xtding233/waves-rank/internal/config"
	"github.com/xtding233/waves-rank/internal/gacha"
	"github.com/xtding233/waves-rank/internal/gachalog"
	"github.com/xtding233/waves-rank/internal/gear"
	"github.com/xtding233/waves-rank/internal/metrics"
	"github.com/xtding233/waves-rank/internal/playerdata"
	"github.com/xtding233/waves-rank/internal/plugin"
	"github.com/xtding233/waves-rank/internal/rank"
	"github.com/xtding233/waves-rank/internal/rankcache"
)

type noFetch struct{}

func (noFetch) FetchGachaLog(context.Context, string, string) (*gacha.LogFile, error) {
	return &gacha.LogFile{}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Banners.LuckTrials = 50
	provider := config.NewProvider(cfg)
	m := metrics.New()

	binds, err := bind.Open(context.Background(), config.BindConfig{Driver: "sqlite", DSN: filepath.Join(dir, "bind.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = binds.Close() })
	files := playerdata.New(dir)

	p := plugin.New(plugin.Deps{
		Config:   provider,
		Binds:    binds,
		Files:    files,
		Ranks:    rank.NewService(binds, files, rankcache.New(files, nil, m), gear.NewCalculator(nil), provider, nil),
		Importer: gachalog.NewImporter(files, noFetch{}, gachalog.NewCooldown(10*time.Second), nil, m),
		Metrics:  m,
	})
	srv := httptest.NewServer(newRouter(p, provider, m, nil))
	t.Cleanup(srv.Close)
	return srv
}

func postEvent(t *testing.T, url string, ev plugin.Event) eventResp {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	resp, err := http.Post(url+"/api/event", "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out eventResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestEventEndpoint(t *testing.T) {
	srv := newTestServer(t)

	out := postEvent(t, srv.URL, plugin.Event{BotID: "qq", UserID: "u1", GroupID: "g1", Text: "ww绑定100000001"})
	assert.True(t, out.Handled)
	require.Len(t, out.Messages, 1)
	assert.Contains(t, out.Messages[0].Text, "绑定成功")

	out = postEvent(t, srv.URL, plugin.Event{BotID: "qq", UserID: "u1", GroupID: "g1", Text: "ww抽卡排行"})
	require.Len(t, out.Messages, 1)
	assert.Contains(t, out.Messages[0].Text, "暂无抽卡排行数据")

	out = postEvent(t, srv.URL, plugin.Event{BotID: "qq", UserID: "u1", Text: "hello"})
	assert.False(t, out.Handled)
	assert.Empty(t, out.Messages)
}

func TestEventEndpointRejects(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/api/event", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/event", "application/json", strings.NewReader(`{"text":"ww抽卡排行"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSimulateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/simulate?banner=character&goal=up&trials=100&observed=60")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out simResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 100, out.Count)
	assert.Greater(t, out.Mean, 0.0)
	require.NotNil(t, out.Luck)
	assert.GreaterOrEqual(t, *out.Luck, 0.0)

	for _, q := range []string{"banner=x", "goal=y", "trials=0", "trials=abc", "runs=z", "runs=0", "runs=1001", "runs=1000&trials=100000", "observed=q"} {
		resp, err := http.Get(srv.URL + "/api/simulate?" + q)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestSimulateStopsWhenRequestCancelled(t *testing.T) {
	h := handleSimulate(config.NewProvider(config.Default()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/simulate?runs=1000&trials=2000", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsAndHealth(t *testing.T) {
	srv := newTestServer(t)
	postEvent(t, srv.URL, plugin.Event{BotID: "qq", UserID: "u1", GroupID: "g1", Text: "ww抽卡排行"})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `waves_rank_commands_total{command="gacha_rank",result="ok"} 1`)
}

func TestRestartOnlyKeys(t *testing.T) {
	a := config.Default()
	b := a
	b.Prefix = "xx"
	b.GachaRankMin = 5
	assert.Empty(t, restartOnly(&a, &b))

	b.QQPicCache = !a.QQPicCache
	b.API.ImportCooldown = a.API.ImportCooldown + time.Second
	b.Gear.WeightsFile = "weights.yaml"
	assert.Equal(t, []string{"qq_pic_cache", "api", "gear.weights_file"}, restartOnly(&a, &b))
}
