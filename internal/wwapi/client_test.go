package wwapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/waves-rank/internal/config"
	"github.com/xtding233/waves-rank/internal/gacha"
)

func newClient(url string) *Client {
	cfg := config.Default().API
	cfg.GachaURL = url
	cfg.RateLimit = 0
	return New(cfg, nil, nil)
}

func TestFetchGachaLog(t *testing.T) {
	var seen []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var q gachaQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		assert.Equal(t, "100000001", q.PlayerID)
		assert.Equal(t, "abc", q.RecordID)
		seen = append(seen, q.CardPoolType)

		data := []gacha.Record{}
		if q.CardPoolType == 1 {
			data = append(data, gacha.Record{ResourceID: 1205, QualityLevel: 5, Name: "长离", Time: "2024-05-23 10:00:00"})
		}
		_ = json.NewEncoder(w).Encode(gachaResponse{Code: 0, Data: data})
	}))
	defer srv.Close()

	lf, err := newClient(srv.URL).FetchGachaLog(context.Background(), "100000001", "abc")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, seen)
	recs := lf.Records(gacha.BannerCharacterEvent)
	require.Len(t, recs, 1)
	assert.Equal(t, "1", recs[0].CardPoolType)
	assert.Equal(t, "100000001", lf.Info.UID)
}

func TestUpstreamFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
		"body":   func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("<html>")) },
		"code": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(gachaResponse{Code: -1, Message: "请求失败"})
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			_, err := newClient(srv.URL).GachaRecords(context.Background(), "1", "r", gacha.BannerCharacterEvent)
			assert.ErrorIs(t, err, ErrUpstream)
		})
	}
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := config.Default().API
	cfg.GachaURL = srv.URL
	cfg.Timeout = 20 * time.Millisecond
	_, err := New(cfg, nil, nil).GachaRecords(context.Background(), "1", "r", gacha.BannerCharacterEvent)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestSlashRank(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var req SlashRankRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 5, req.Page)
		assert.Equal(t, 20, req.PageNum)
		_ = json.NewEncoder(w).Encode(SlashRankResponse{Data: &SlashRankData{RankList: []SlashRankItem{{Rank: 81, Score: 31000}}}})
	}))
	defer srv.Close()

	c := newClient("http://unused")
	resp, err := c.SlashRank(context.Background(), "tok", srv.URL, SlashRankRequest{Page: 9})
	require.NoError(t, err)
	require.Len(t, resp.Data.RankList, 1)
	assert.Equal(t, 31000, resp.Data.RankList[0].Score)

	_, err = c.SlashRank(context.Background(), "", srv.URL, SlashRankRequest{})
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(-3))
	assert.Equal(t, 1, ClampPage(0))
	assert.Equal(t, 3, ClampPage(3))
	assert.Equal(t, 5, ClampPage(6))
}
