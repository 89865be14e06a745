package plugin

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/xtding233/waves-rank/internal/bind"
	"github.com/xtding233/waves-rank/internal/gachalog"
	"github.com/xtding233/waves-rank/internal/playerdata"
	"github.com/xtding233/waves-rank/internal/wwapi"
)

func notBound(err error) error {
	if errors.Is(err, ErrNotBound) {
		return nil
	}
	return err
}

func (p *Plugin) importLink(ctx context.Context, bot Bot, ev *Event) error {
	uid, err := p.boundUID(ctx, bot, ev)
	if err != nil {
		return notBound(err)
	}
	// repeated triggers during the cooldown are ignored silently
	if p.Importer.Remaining(ev.UserID, uid) > 0 {
		return nil
	}
	if strings.TrimSpace(ev.Args) == "" {
		return text(ctx, bot, ev, p.msgInvalidLink())
	}
	link, err := gachalog.ParseLink(ev.Args)
	if err != nil {
		return text(ctx, bot, ev, p.msgInvalidLink())
	}
	if link.CheckPlayer(uid) != nil {
		return text(ctx, bot, ev, p.msgPlayerMismatch(link.PlayerID))
	}

	force := strings.HasPrefix(ev.Command, "强制")
	_ = text(ctx, bot, ev, fmt.Sprintf("UID%s开始执行[刷新抽卡记录],需要一定时间...请勿重复触发!", uid))
	res, err := p.Importer.ImportLink(ctx, ev.UserID, uid, ev.Args, force)
	switch {
	case errors.Is(err, gachalog.ErrCooldown):
		return nil
	case errors.Is(err, wwapi.ErrUpstream):
		_ = text(ctx, bot, ev, "获取抽卡记录失败，请检查链接是否过期后重试")
		return err
	case err != nil:
		_ = text(ctx, bot, ev, "刷新抽卡记录失败...")
		return err
	}
	return text(ctx, bot, ev, formatImport(res))
}

func (p *Plugin) importFile(ctx context.Context, bot Bot, ev *Event) error {
	uid, err := p.boundUID(ctx, bot, ev)
	if err != nil {
		return notBound(err)
	}
	if p.Importer.Remaining(ev.UserID, uid) > 0 {
		return nil
	}
	_ = text(ctx, bot, ev, "正在尝试导入抽卡记录中，请耐心等待……")
	res, err := p.Importer.ImportFile(ctx, ev.UserID, uid, ev.File)
	switch {
	case errors.Is(err, gachalog.ErrCooldown):
		return nil
	case errors.Is(err, gachalog.ErrInvalidFile):
		return text(ctx, bot, ev, "导入抽卡记录异常，请确认文件为抽卡记录JSON")
	case errors.Is(err, gachalog.ErrPlayerMismatch):
		return text(ctx, bot, ev, "抽卡记录文件的特征码与当前绑定的特征码不一致")
	case err != nil:
		_ = text(ctx, bot, ev, "导入抽卡记录异常...")
		return err
	}
	return text(ctx, bot, ev, formatImport(res))
}

func (p *Plugin) exportGacha(ctx context.Context, bot Bot, ev *Event) error {
	uid, err := p.boundUID(ctx, bot, ev)
	if err != nil {
		return notBound(err)
	}
	name, data, err := p.Importer.Export(uid)
	if errors.Is(err, playerdata.ErrNotFound) {
		return text(ctx, bot, ev, fmt.Sprintf("UID%s暂无抽卡记录，请先使用【%s导入抽卡链接】", uid, p.prefix()))
	}
	if err != nil {
		_ = text(ctx, bot, ev, "导出抽卡记录失败...")
		return err
	}
	if err := bot.Send(ctx, Message{File: data, FileName: name}); err != nil {
		return err
	}
	return text(ctx, bot, ev, "✅导出抽卡记录成功！")
}

func (p *Plugin) gachaSummary(ctx context.Context, bot Bot, ev *Event) error {
	uid, err := p.boundUID(ctx, bot, ev)
	if err != nil {
		return notBound(err)
	}
	lf, err := p.Files.GachaLog(uid)
	if err != nil && !errors.Is(err, playerdata.ErrNotFound) {
		_ = text(ctx, bot, ev, "读取抽卡记录失败...")
		return err
	}
	if lf.Total() == 0 {
		return text(ctx, bot, ev, fmt.Sprintf("UID%s暂无抽卡记录，请先使用【%s导入抽卡链接】", uid, p.prefix()))
	}
	s, err := gachalog.Summarize(ctx, p.Config.Get(), lf)
	if err != nil {
		_ = text(ctx, bot, ev, "统计抽卡记录失败...")
		return err
	}
	if roles, err := p.Files.Roles(uid); err == nil {
		s.OwnedGold = roles.FiveStarGold()
	}
	return bot.Send(ctx, Message{Text: formatSummary(s)})
}

func (p *Plugin) bindUID(ctx context.Context, bot Bot, ev *Event) error {
	uid := ev.Match["uid"]
	err := p.Binds.Upsert(ctx, bind.Bind{UserID: ev.UserID, BotID: ev.BotID, GroupID: ev.GroupID, UID: uid})
	if err != nil {
		_ = text(ctx, bot, ev, "绑定失败，请稍后再试")
		return err
	}
	return text(ctx, bot, ev, fmt.Sprintf("[鸣潮] 特征码【%s】绑定成功！", uid))
}
