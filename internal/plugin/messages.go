package plugin

import (
	"fmt"
	"strings"
)

const groupOnly = "请在群聊中使用本功能！"

func (p *Plugin) msgNotBound() string {
	return fmt.Sprintf("您还未绑定鸣潮特征码, 请使用【%s绑定uid】完成绑定！", p.prefix())
}

// msgNoRankData is the guidance sent when a group has nothing to rank. what names the
// board, hint the command that produces its data.
func (p *Plugin) msgNoRankData(groupID, what, hint string, gated bool) string {
	pre := p.prefix()
	lines := []string{
		fmt.Sprintf("[鸣潮] 群【%s】暂无%s数据", groupID, what),
		fmt.Sprintf("请使用【%s%s】后再使用此功能！", pre, hint),
	}
	if gated {
		lines = append(lines, fmt.Sprintf("当前排行开启了登录验证，请使用命令【%s登录】登录后此功能！", pre))
	}
	return strings.Join(lines, "\n")
}

func (p *Plugin) msgInvalidLink() string {
	return fmt.Sprintf("请给出正确的抽卡记录链接, 可发送【%s抽卡帮助】", p.prefix())
}

func (p *Plugin) msgPlayerMismatch(playerID string) string {
	pre := p.prefix()
	return fmt.Sprintf("请保证抽卡链接的特征码与当前正在使用的特征码一致\n\n请使用以下命令核查:\n%s查看\n%s切换%s", pre, pre, playerID)
}
