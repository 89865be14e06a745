package plugin

import (
	"context"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/xtding233/waves-rank/internal/rank"
	"github.com/xtding233/waves-rank/internal/render"
	"github.com/xtding233/waves-rank/internal/wwapi"
)

func (p *Plugin) gachaRank(ctx context.Context, bot Bot, ev *Event) error {
	if ev.GroupID == "" {
		return text(ctx, bot, ev, groupOnly)
	}
	reverse := strings.Contains(ev.Args, "非")
	board, err := p.Ranks.GachaRank(ctx, p.caller(ev), reverse)
	if err != nil {
		return p.rankFailed(ctx, bot, ev, err, "抽卡排行", "导入抽卡记录")
	}
	return p.sendBoard(ctx, bot, ev, render.GachaRank, board, rowUsers(board.Rows, func(e rank.GachaRankEntry) string { return e.UserID }), formatGacha(board))
}

func (p *Plugin) practiceRank(ctx context.Context, bot Bot, ev *Event) error {
	if ev.GroupID == "" {
		return text(ctx, bot, ev, groupOnly)
	}
	threshold := rank.ParseThreshold(ev.Args, p.Config.Get().Rank.PracticeThreshold)
	board, err := p.Ranks.PracticeRank(ctx, p.caller(ev), threshold)
	if err != nil {
		return p.rankFailed(ctx, bot, ev, err, "练度排行", "刷新面板")
	}
	return p.sendBoard(ctx, bot, ev, render.PracticeRank, board, rowUsers(board.Rows, func(e rank.PracticeRankEntry) string { return e.UserID }), formatPractice(board))
}

func (p *Plugin) slashRank(ctx context.Context, bot Bot, ev *Event) error {
	if ev.GroupID == "" {
		return text(ctx, bot, ev, groupOnly)
	}
	board, err := p.Ranks.SlashRank(ctx, p.caller(ev))
	if err != nil {
		return p.rankFailed(ctx, bot, ev, err, "无尽排行", "无尽")
	}
	return p.sendBoard(ctx, bot, ev, render.SlashRank, board, rowUsers(board.Rows, func(e rank.SlashRankEntry) string { return e.UserID }), formatSlash(board))
}

// rankFailed answers ErrNoData with guidance and anything else with a failure notice.
func (p *Plugin) rankFailed(ctx context.Context, bot Bot, ev *Event, err error, what, hint string) error {
	if errors.Is(err, rank.ErrNoData) {
		gated := rank.TokenGate(p.Config.Get(), ev.GroupID)
		return text(ctx, bot, ev, p.msgNoRankData(ev.GroupID, what, hint, gated))
	}
	_ = text(ctx, bot, ev, "获取"+what+"失败，请稍后再试")
	return err
}

func rowUsers[T any](rows []rank.Ranked[T], user func(T) string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = user(r.Entry)
	}
	return out
}

// sendBoard renders board as an image when a renderer is configured and falls back
// to the text table otherwise.
func (p *Plugin) sendBoard(ctx context.Context, bot Bot, ev *Event, kind render.Kind, board any, users []string, fallback string) error {
	if p.Renderer != nil && p.Renderer.Enabled() {
		payload := render.Payload{Board: board}
		if p.Avatars != nil {
			payload.Avatars = make(map[string][]byte)
			for i, img := range p.Avatars.GetAll(ctx, users) {
				if img != nil {
					payload.Avatars[users[i]] = img
				}
			}
		}
		img, err := p.Renderer.Render(ctx, kind, payload)
		if err == nil {
			return bot.Send(ctx, Message{Image: img})
		}
		p.Log.Warn("render failed, sending text", zap.String("kind", string(kind)), zap.Error(err))
	}
	return bot.Send(ctx, Message{Text: fallback})
}

func (p *Plugin) remoteSlashRank(ctx context.Context, bot Bot, ev *Event) error {
	cfg := p.Config.Get()
	page, _ := strconv.Atoi(ev.Match["page"])

	uid, err := p.Binds.GetUIDByGame(ctx, ev.UserID, ev.BotID)
	if err != nil {
		p.Log.Debug("remote slash rank without uid", zap.Error(err))
	}
	resp, err := p.Remote.SlashRank(ctx, cfg.WavesToken, cfg.API.SlashRankURL, wwapi.SlashRankRequest{
		Page:    wwapi.ClampPage(page),
		WavesID: uid,
	})
	switch {
	case errors.Is(err, wwapi.ErrNoToken):
		return text(ctx, bot, ev, "未配置无尽总排行服务")
	case err != nil:
		_ = text(ctx, bot, ev, "获取排行失败")
		return err
	case resp.Data == nil && resp.Message != "":
		return text(ctx, bot, ev, resp.Message)
	case resp.Data == nil:
		return text(ctx, bot, ev, "获取排行失败")
	}
	return bot.Send(ctx, Message{Text: formatRemoteSlash(wwapi.ClampPage(page), resp.Data)})
}
