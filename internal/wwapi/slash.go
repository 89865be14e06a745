package wwapi

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Remote slash rank pages.
const (
	SlashPageSize = 20
	SlashMaxPage  = 5
)

// ErrNoToken means the remote rank service is not configured.
var ErrNoToken = errors.New("remote rank token not configured")

type SlashRankRequest struct {
	Page    int    `json:"page"`
	PageNum int    `json:"page_num"`
	WavesID string `json:"waves_id"`
	Version string `json:"version"`
}

type SlashRankResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    *SlashRankData `json:"data"`
}

type SlashRankData struct {
	RankList []SlashRankItem `json:"rank_list"`
	MyRank   *SlashRankItem  `json:"my_rank,omitempty"`
}

type SlashRankItem struct {
	Rank     int             `json:"rank"`
	UserID   string          `json:"user_id"`
	WavesID  string          `json:"waves_id"`
	KuroName string          `json:"kuro_name"`
	Score    int             `json:"score"`
	HalfList []SlashRankHalf `json:"half_list"`
}

type SlashRankHalf struct {
	BuffIcon string          `json:"buff_icon"`
	BuffName string          `json:"buff_name"`
	Score    int             `json:"score"`
	CharList []SlashRankChar `json:"char_list"`
}

type SlashRankChar struct {
	CharID int `json:"char_id"`
	Level  int `json:"level"`
	Chain  int `json:"chain"` // -1 when unknown
}

// ClampPage keeps page in 1..SlashMaxPage.
func ClampPage(page int) int {
	return min(max(page, 1), SlashMaxPage)
}

// SlashRank fetches one page of the global endless-tower rank.
func (c *Client) SlashRank(ctx context.Context, token, url string, req SlashRankRequest) (*SlashRankResponse, error) {
	if token == "" || url == "" {
		return nil, ErrNoToken
	}
	req.Page = ClampPage(req.Page)
	req.PageNum = SlashPageSize

	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	var resp SlashRankResponse
	if err := c.postJSON(ctx, "slash_rank", url, req, h, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
