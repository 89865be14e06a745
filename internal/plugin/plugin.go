package plugin

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/xtding233/waves-rank/internal/bind"
	"github.com/xtding233/waves-rank/internal/gachalog"
	"github.com/xtding233/waves-rank/internal/metrics"
	"github.com/xtding233/waves-rank/internal/playerdata"
	"github.com/xtding233/waves-rank/internal/rank"
	"github.com/xtding233/waves-rank/internal/render"
	"github.com/xtding233/waves-rank/internal/wwapi"
)

// ErrNotBound means the caller has no active uid for this bot.
var ErrNotBound = errors.New("user has no bound uid")

// RemoteRanker fetches the global endless-tower rank; wwapi.Client satisfies it.
type RemoteRanker interface {
	SlashRank(ctx context.Context, token, url string, req wwapi.SlashRankRequest) (*wwapi.SlashRankResponse, error)
}

// Avatars fetches avatars aligned with userIDs; missing ones are nil.
type Avatars interface {
	GetAll(ctx context.Context, userIDs []string) [][]byte
}

type Renderer interface {
	Enabled() bool
	Render(ctx context.Context, kind render.Kind, p render.Payload) ([]byte, error)
}

// Deps are the collaborators the commands use. Avatars and Renderer may be nil.
type Deps struct {
	Config   rank.ConfigSource
	Binds    bind.Store
	Files    *playerdata.Store
	Ranks    *rank.Service
	Importer *gachalog.Importer
	Remote   RemoteRanker
	Avatars  Avatars
	Renderer Renderer
	Log      *zap.Logger
	Metrics  *metrics.Metrics
}

type Plugin struct {
	Deps
	router *Router
}

func New(d Deps) *Plugin {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	d.Log = d.Log.Named("plugin")
	p := &Plugin{Deps: d}
	p.router = NewRouter(p.prefix, d.Log, d.Metrics)
	p.routes()
	return p
}

func (p *Plugin) prefix() string { return p.Config.Get().Prefix }

func (p *Plugin) routes() {
	r := p.router
	r.OnCommand("gacha_rank", []string{"群抽卡排行", "群抽卡排名", "抽卡排行", "抽卡排名"}, p.gachaRank)
	r.OnCommand("practice_rank", []string{"练度排行", "练度排名"}, p.practiceRank)
	r.OnRegex("remote_slash_rank", `^无尽总(?:排行|排名)\s*(?P<page>\d+)?$`, p.remoteSlashRank)
	r.OnCommand("slash_rank", []string{"群无尽排行", "群无尽排名", "无尽排行", "无尽排名"}, p.slashRank)
	r.OnCommand("import_link", []string{"强制导入抽卡链接", "强制导入抽卡记录", "导入抽卡链接", "导入抽卡记录"}, p.importLink)
	r.OnFullMatch("export_gacha", []string{"导出抽卡记录"}, p.exportGacha)
	r.OnFullMatch("gacha_summary", []string{"抽卡记录", "抽卡统计"}, p.gachaSummary)
	r.OnRegex("bind", `^绑定\s*(?P<uid>\d{6,12})$`, p.bindUID)
	r.OnFile("import_file", "json", p.importFile)
}

// Handle routes ev. Unmatched events are ignored.
func (p *Plugin) Handle(ctx context.Context, bot Bot, ev *Event) (bool, error) {
	return p.router.Dispatch(ctx, bot, ev)
}

func (p *Plugin) caller(ev *Event) rank.Caller {
	return rank.Caller{GroupID: ev.GroupID, UserID: ev.UserID, BotID: ev.BotID}
}

// boundUID replies with bind guidance when the caller has no uid.
func (p *Plugin) boundUID(ctx context.Context, bot Bot, ev *Event) (string, error) {
	uid, err := p.Binds.GetUIDByGame(ctx, ev.UserID, ev.BotID)
	if err != nil {
		_ = bot.Send(ctx, Message{Text: "查询绑定信息失败，请稍后再试"})
		return "", errors.Wrap(err, "lookup bind")
	}
	if uid == "" {
		_ = bot.Send(ctx, Message{Text: p.msgNotBound(), At: ev.GroupID != ""})
		return "", ErrNotBound
	}
	return uid, nil
}

func text(ctx context.Context, bot Bot, ev *Event, s string) error {
	return bot.Send(ctx, Message{Text: s, At: ev.GroupID != ""})
}
