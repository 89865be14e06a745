package gachalog

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/xtding233/waves-rank/internal/gacha"
	"github.com/xtding233/waves-rank/internal/metrics"
	"github.com/xtding233/waves-rank/internal/playerdata"
	"github.com/xtding233/waves-rank/internal/timedcache"
)

// ErrCooldown rejects an import for a key that imported within the cooldown.
var ErrCooldown = errors.New("import on cooldown")

// ExportVersion tags files written by Export.
const ExportVersion = "v2.0"

// Fetcher pulls the full upstream history for one player.
type Fetcher interface {
	FetchGachaLog(ctx context.Context, playerID, recordID string) (*gacha.LogFile, error)
}

// Cooldown gates imports per user_uid key. The value is when the fetch was attempted.
type Cooldown = timedcache.Cache[string, time.Time]

// NewCooldown returns the import gate; entries live for ttl, at most 10000 keys.
func NewCooldown(ttl time.Duration, opts ...timedcache.Option[string, time.Time]) *Cooldown {
	return timedcache.New(10000, ttl, opts...)
}

// Result reports what an import changed.
type Result struct {
	UID   string
	Added map[gacha.BannerType]int
	Total int
}

// Importer fetches, merges and stores gacha histories.
type Importer struct {
	files    *playerdata.Store
	fetcher  Fetcher
	cooldown *Cooldown
	log      *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewImporter(files *playerdata.Store, fetcher Fetcher, cooldown *Cooldown, log *zap.Logger, m *metrics.Metrics) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{files: files, fetcher: fetcher, cooldown: cooldown, log: log.Named("gachalog"), metrics: m, now: time.Now}
}

var exportZone = time.FixedZone("UTC+8", 8*3600)

func (im *Importer) stamp() string { return im.now().In(exportZone).Format(gacha.TimeLayout) }

func cooldownKey(userID, uid string) string { return userID + "_" + uid }

// Remaining returns how long userID must wait before importing uid again.
func (im *Importer) Remaining(userID, uid string) time.Duration {
	if im.cooldown == nil {
		return 0
	}
	return im.cooldown.Remaining(cooldownKey(userID, uid))
}

func (im *Importer) arm(userID, uid string) {
	if im.cooldown != nil {
		im.cooldown.Set(cooldownKey(userID, uid), im.now())
	}
}

// ImportLink parses text, fetches the history and merges it into the stored log.
// Invalid input writes nothing and does not start the cooldown; a fetch attempt does.
func (im *Importer) ImportLink(ctx context.Context, userID, uid, text string, force bool) (*Result, error) {
	if d := im.Remaining(userID, uid); d > 0 {
		return nil, errors.Wrapf(ErrCooldown, "%s left", d)
	}
	link, err := ParseLink(text)
	if err != nil {
		return nil, err
	}
	if err := link.CheckPlayer(uid); err != nil {
		return nil, err
	}

	defer im.arm(userID, uid)
	fetched, err := im.fetcher.FetchGachaLog(ctx, uid, link.RecordID)
	if err != nil {
		im.log.Error("fetch gacha log failed", zap.String("uid", uid), zap.Error(err))
		return nil, err
	}
	if force {
		im.log.Warn("forced gacha log refresh", zap.String("uid", uid))
	}
	return im.store(uid, fetched, force)
}

// ImportFile merges an uploaded JSON history: either an exported gacha_logs.json or
// a flat {"info":..., "list":[...]} document with cardPoolType on every record.
func (im *Importer) ImportFile(ctx context.Context, userID, uid string, data []byte) (*Result, error) {
	if d := im.Remaining(userID, uid); d > 0 {
		return nil, errors.Wrapf(ErrCooldown, "%s left", d)
	}
	lf, err := decodeUpload(data)
	if err != nil {
		return nil, err
	}
	if lf.Info.UID != "" && lf.Info.UID != uid {
		return nil, errors.Wrapf(ErrPlayerMismatch, "file uid %s, bound %s", lf.Info.UID, uid)
	}
	defer im.arm(userID, uid)
	return im.store(uid, lf, false)
}

type flatUpload struct {
	Info gacha.LogInfo  `json:"info"`
	List []gacha.Record `json:"list"`
}

func decodeUpload(data []byte) (*gacha.LogFile, error) {
	var upload struct {
		Info gacha.LogInfo             `json:"info"`
		Data map[string][]gacha.Record `json:"data"`
		List json.RawMessage           `json:"list"`
	}
	if err := json.Unmarshal(data, &upload); err != nil {
		return nil, errors.Wrap(ErrInvalidFile, err.Error())
	}
	if upload.Data != nil {
		return &gacha.LogFile{Info: upload.Info, Data: upload.Data}, nil
	}
	if upload.List == nil {
		return nil, errors.Wrap(ErrInvalidFile, "neither data nor list present")
	}
	var flat flatUpload
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, errors.Wrap(ErrInvalidFile, err.Error())
	}
	lf := &gacha.LogFile{Info: flat.Info, Data: make(map[string][]gacha.Record)}
	for _, r := range flat.List {
		b, ok := bannerOf(r.CardPoolType)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidFile, "unknown cardPoolType %q", r.CardPoolType)
		}
		lf.Data[b.Name()] = append(lf.Data[b.Name()], r)
	}
	// flat exports are oldest first; stored lists are newest first
	for k, recs := range lf.Data {
		if len(recs) > 1 && recs[0].Time < recs[len(recs)-1].Time {
			for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
				recs[i], recs[j] = recs[j], recs[i]
			}
		}
		lf.Data[k] = recs
	}
	return lf, nil
}

// ErrInvalidFile rejects uploads that are not a gacha history.
var ErrInvalidFile = errors.New("invalid gacha log file")

func bannerOf(code string) (gacha.BannerType, bool) {
	for _, b := range gacha.AllBanners {
		if code == strconv.Itoa(int(b)) {
			return b, true
		}
	}
	return 0, false
}

func (im *Importer) store(uid string, fetched *gacha.LogFile, force bool) (*Result, error) {
	old, err := im.files.GachaLog(uid)
	if err != nil && !errors.Is(err, playerdata.ErrNotFound) {
		// an unreadable history is replaced rather than merged into
		im.log.Warn("stored gacha log unreadable", zap.String("uid", uid), zap.Error(err))
		old = nil
	}

	merged := gacha.MergeLogs(old, fetched, force)
	merged.Info.UID = uid
	merged.Info.ExportTime = im.stamp()
	merged.Info.Version = ExportVersion

	res := &Result{UID: uid, Added: make(map[gacha.BannerType]int), Total: merged.Total()}
	for _, b := range gacha.AllBanners {
		if n := len(merged.Records(b)) - len(old.Records(b)); n > 0 {
			res.Added[b] = n
			im.metrics.ImportedPulls(n)
		}
	}
	if err := im.files.SaveGachaLog(uid, merged); err != nil {
		return nil, errors.Wrap(err, "save gacha log")
	}
	im.log.Info("gacha log imported", zap.String("uid", uid), zap.Int("total", res.Total), zap.Bool("force", force))
	return res, nil
}

// Export returns the stored history as an indented JSON file.
func (im *Importer) Export(uid string) (name string, data []byte, err error) {
	lf, err := im.files.GachaLog(uid)
	if err != nil {
		return "", nil, err
	}
	lf.Info.UID = uid
	lf.Info.ExportTime = im.stamp()
	lf.Info.Version = ExportVersion
	data, err = json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return "", nil, errors.Wrap(err, "encode export")
	}
	return "export_" + uid + ".json", data, nil
}
