package plugin

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/waves-rank/internal/metrics"
)

func TestRouterMatching(t *testing.T) {
	var hit string
	var got Event
	h := func(name string) HandlerFunc {
		return func(_ context.Context, _ Bot, ev *Event) error {
			hit, got = name, *ev
			return nil
		}
	}
	r := NewRouter(func() string { return "ww" }, nil, nil)
	r.OnCommand("cmd", []string{"抽卡排行"}, h("cmd"))
	r.OnFullMatch("full", []string{"抽卡记录"}, h("full"))
	r.OnRegex("re", `^绑定(?P<uid>\d+)$`, h("re"))
	r.OnFile("file", "json", h("file"))

	cases := []struct {
		ev   Event
		want string
	}{
		{Event{Text: "ww抽卡排行 非"}, "cmd"},
		{Event{Text: "  ww 抽卡记录 "}, "full"},
		{Event{Text: "ww绑定123"}, "re"},
		{Event{File: []byte("{}"), FileName: "x.Json"}, "file"},
		{Event{Text: "抽卡排行"}, ""},
		{Event{Text: "ww抽卡记录啊"}, ""},
		{Event{File: []byte("x"), FileName: "x.png"}, ""},
	}
	for _, c := range cases {
		hit = ""
		ev := c.ev
		ok, err := r.Dispatch(context.Background(), &Recorder{}, &ev)
		require.NoError(t, err)
		assert.Equal(t, c.want != "", ok, c.ev.Text)
		assert.Equal(t, c.want, hit, c.ev.Text)
	}

	ev := Event{Text: "ww抽卡排行 非"}
	_, _ = r.Dispatch(context.Background(), &Recorder{}, &ev)
	assert.Equal(t, "抽卡排行", got.Command)
	assert.Equal(t, "非", got.Args)

	ev = Event{Text: "ww绑定123"}
	_, _ = r.Dispatch(context.Background(), &Recorder{}, &ev)
	assert.Equal(t, "123", got.Match["uid"])
}

func TestRouterCountsErrors(t *testing.T) {
	m := metrics.New()
	r := NewRouter(func() string { return "" }, nil, m)
	r.OnFullMatch("boom", []string{"boom"}, func(context.Context, Bot, *Event) error { return errors.New("boom") })

	ok, err := r.Dispatch(context.Background(), &Recorder{}, &Event{Text: "boom"})
	assert.True(t, ok)
	assert.Error(t, err)
	expected := `
# HELP waves_rank_commands_total Handled chat commands by name and result.
# TYPE waves_rank_commands_total counter
waves_rank_commands_total{command="boom",result="error"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "waves_rank_commands_total"))
}
