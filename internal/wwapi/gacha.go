package wwapi

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/xtding233/waves-rank/internal/gacha"
)

type gachaQuery struct {
	PlayerID     string `json:"playerId"`
	CardPoolID   string `json:"cardPoolId"`
	CardPoolType int    `json:"cardPoolType"`
	ServerID     string `json:"serverId"`
	LanguageCode string `json:"languageCode"`
	RecordID     string `json:"recordId"`
}

type gachaResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    []gacha.Record `json:"data"`
}

// GachaRecords queries one banner. Records come back newest first.
func (c *Client) GachaRecords(ctx context.Context, playerID, recordID string, banner gacha.BannerType) ([]gacha.Record, error) {
	q := gachaQuery{
		PlayerID:     playerID,
		CardPoolType: int(banner),
		ServerID:     c.cfg.ServerID,
		LanguageCode: c.cfg.LanguageCode,
		RecordID:     recordID,
	}
	var resp gachaResponse
	if err := c.postJSON(ctx, "gacha_record", c.cfg.GachaURL, q, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, errors.Wrapf(ErrUpstream, "gacha_record: code %d: %s", resp.Code, resp.Message)
	}
	for i := range resp.Data {
		if resp.Data[i].CardPoolType == "" {
			resp.Data[i].CardPoolType = strconv.Itoa(int(banner))
		}
	}
	return resp.Data, nil
}

// FetchGachaLog queries every banner and returns them as one log file keyed by banner
// name. Any failing banner fails the whole fetch.
func (c *Client) FetchGachaLog(ctx context.Context, playerID, recordID string) (*gacha.LogFile, error) {
	lf := &gacha.LogFile{
		Info: gacha.LogInfo{UID: playerID},
		Data: make(map[string][]gacha.Record, len(gacha.AllBanners)),
	}
	for _, b := range gacha.AllBanners {
		recs, err := c.GachaRecords(ctx, playerID, recordID, b)
		if err != nil {
			return nil, errors.Wrapf(err, "banner %s", b.Name())
		}
		lf.Data[b.Name()] = recs
	}
	return lf, nil
}
