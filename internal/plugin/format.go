package plugin

import (
	"fmt"
	"strings"

	"github.com/xtding233/waves-rank/internal/gacha"
	"github.com/xtding233/waves-rank/internal/gachalog"
	"github.com/xtding233/waves-rank/internal/rank"
	"github.com/xtding233/waves-rank/internal/wwapi"
)

var tierMarks = [...]string{"", "[I]", "[II]", "[III]", "[IV]", "[V]"}

func selfMark(selfUID, uid string) string {
	if selfUID != "" && selfUID == uid {
		return "★"
	}
	return ""
}

func formatGacha(b *rank.GachaBoard) string {
	var sb strings.Builder
	order := "欧皇"
	if b.Reverse {
		order = "非酋"
	}
	fmt.Fprintf(&sb, "[鸣潮] 群【%s】抽卡排行（%s榜，共%d人，至少%d抽）\n", b.GroupID, order, b.Total, b.MinPulls)
	for _, r := range b.Rows {
		e := r.Entry
		fmt.Fprintf(&sb, "%d. %sUID%s 加权%.1f | 角色%d金/%d抽 均%.1f | 武器%d金/%d抽 均%.1f\n",
			r.Rank, selfMark(b.SelfUID, e.UID), e.UID, e.Weighted,
			e.CharGold, e.CharTotal, e.CharAvg, e.WeaponGold, e.WeaponTotal, e.WeaponAvg)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatPractice(b *rank.PracticeBoard) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[鸣潮] 群【%s】练度排行（%s级，声骸分≥%d，共%d人）\n", b.GroupID, b.Label, b.Threshold, b.Total)
	for i, r := range b.Rows {
		e := r.Entry
		fmt.Fprintf(&sb, "%d. %sUID%s 总分%.2f", r.Rank, selfMark(b.SelfUID, e.UID), e.UID, e.TotalScore)
		if i < len(b.TopRoles) {
			for _, rs := range b.TopRoles[i] {
				fmt.Fprintf(&sb, " %s%.1f", rs.Role.Role.RoleName, rs.Score)
			}
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatSlash(b *rank.Board[rank.SlashRankEntry]) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[鸣潮] 群【%s】无尽排行（共%d人）\n", b.GroupID, b.Total)
	for _, r := range b.Rows {
		e := r.Entry
		fmt.Fprintf(&sb, "%d. %sUID%s 分数%d%s 金数%d", r.Rank, selfMark(b.SelfUID, e.UID), e.UID, e.Score, tierMarks[rank.ScoreTier(e.Score)], e.Gold)
		for _, h := range e.Halves {
			fmt.Fprintf(&sb, " | %d", h.Score)
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatRemoteSlash(page int, d *wwapi.SlashRankData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[鸣潮] 无尽总排行 第%d页\n", page)
	for _, it := range d.RankList {
		fmt.Fprintf(&sb, "%d. %s UID%s 分数%d\n", it.Rank, it.KuroName, it.WavesID, it.Score)
	}
	if d.MyRank != nil {
		fmt.Fprintf(&sb, "我的排名：%d 分数%d\n", d.MyRank.Rank, d.MyRank.Score)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatImport(res *gachalog.Result) string {
	if len(res.Added) == 0 {
		return fmt.Sprintf("UID%s没有新增抽卡数据！当前共%d条抽卡记录", res.UID, res.Total)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "UID%s数据更新成功！", res.UID)
	for _, b := range gacha.AllBanners {
		if n := res.Added[b]; n > 0 {
			fmt.Fprintf(&sb, "\n%s新增%d条", b.Name(), n)
		}
	}
	fmt.Fprintf(&sb, "\n当前共%d条抽卡记录，可发送【抽卡记录】查看", res.Total)
	return sb.String()
}

func formatSummary(s *gachalog.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[鸣潮] UID%s 抽卡记录：共%d抽，消耗星声%d", s.UID, s.Pulls, s.Astrite)
	for _, b := range s.Banners {
		fmt.Fprintf(&sb, "\n【%s】%d抽 %d金 已垫%d", b.Banner.Name(), b.Total, b.Gold, b.Remain)
		if b.Banner.Limited() {
			fmt.Fprintf(&sb, " UP均%.1f 歪%d 保底%d", b.AvgUp, b.Lost5050, b.Guaranteed)
		} else if b.Gold > 0 {
			fmt.Fprintf(&sb, " 均%.1f", b.Avg)
		}
		if b.HasLuck {
			fmt.Fprintf(&sb, " 欧气超过%.0f%%玩家", b.Luck*100)
		}
	}
	if s.OwnedGold > 0 {
		fmt.Fprintf(&sb, "\n当前五星角色折合%d金", s.OwnedGold)
	}
	if s.Plan.TotalCents > 0 {
		fmt.Fprintf(&sb, "\n折合充值约%.2f%s（首充双倍）/ %.2f%s", float64(s.Plan.TotalCents)/100, s.Plan.Currency,
			float64(s.PlanRest.TotalCents)/100, s.PlanRest.Currency)
	}
	return sb.String()
}
