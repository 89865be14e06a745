package plugin

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xtding233/waves-rank/internal/metrics"
)

// HandlerFunc runs one command. A returned error is logged and counted; the handler
// has already replied to the user.
type HandlerFunc func(ctx context.Context, bot Bot, ev *Event) error

type matchKind int

const (
	matchCommand matchKind = iota
	matchFull
	matchRegex
	matchFile
)

type route struct {
	name  string
	kind  matchKind
	words []string
	re    *regexp.Regexp
	h     HandlerFunc
}

// Router matches event text after the configured prefix. Routes are tried in
// registration order and the first match wins.
type Router struct {
	prefix  func() string
	routes  []route
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewRouter(prefix func() string, log *zap.Logger, m *metrics.Metrics) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{prefix: prefix, log: log, metrics: m}
}

// OnCommand matches text starting with one of words; the rest becomes Args.
func (r *Router) OnCommand(name string, words []string, h HandlerFunc) {
	r.routes = append(r.routes, route{name: name, kind: matchCommand, words: words, h: h})
}

// OnFullMatch matches text equal to one of words.
func (r *Router) OnFullMatch(name string, words []string, h HandlerFunc) {
	r.routes = append(r.routes, route{name: name, kind: matchFull, words: words, h: h})
}

// OnRegex matches the whole text; named groups land in Match.
func (r *Router) OnRegex(name, pattern string, h HandlerFunc) {
	r.routes = append(r.routes, route{name: name, kind: matchRegex, re: regexp.MustCompile(pattern), h: h})
}

// OnFile matches uploads whose name ends in ext. No prefix is required.
func (r *Router) OnFile(name, ext string, h HandlerFunc) {
	r.routes = append(r.routes, route{name: name, kind: matchFile, words: []string{"." + strings.TrimPrefix(ext, ".")}, h: h})
}

// Dispatch runs the first matching route. It reports false when nothing matched.
func (r *Router) Dispatch(ctx context.Context, bot Bot, ev *Event) (bool, error) {
	rt, ok := r.match(ev)
	if !ok {
		return false, nil
	}
	log := r.log.With(zap.String("command", rt.name), zap.String("user_id", ev.UserID), zap.String("group_id", ev.GroupID))
	log.Info("command start")
	start := time.Now()
	err := rt.h(ctx, bot, ev)
	elapsed := time.Since(start)
	r.metrics.ObserveCommand(rt.name, err, elapsed)
	if err != nil {
		log.Error("command failed", zap.Duration("took", elapsed), zap.Error(err))
		return true, err
	}
	log.Info("command done", zap.Duration("took", elapsed))
	return true, nil
}

func (r *Router) match(ev *Event) (route, bool) {
	if len(ev.File) > 0 {
		ext := strings.ToLower(filepath.Ext(ev.FileName))
		for _, rt := range r.routes {
			if rt.kind == matchFile && rt.words[0] == ext {
				return rt, true
			}
		}
		return route{}, false
	}

	text := strings.TrimSpace(ev.Text)
	prefix := r.prefix()
	if !strings.HasPrefix(text, prefix) {
		return route{}, false
	}
	text = strings.TrimSpace(strings.TrimPrefix(text, prefix))

	for _, rt := range r.routes {
		switch rt.kind {
		case matchCommand:
			for _, w := range rt.words {
				if strings.HasPrefix(text, w) {
					ev.Command, ev.Args = w, strings.TrimSpace(strings.TrimPrefix(text, w))
					return rt, true
				}
			}
		case matchFull:
			for _, w := range rt.words {
				if text == w {
					ev.Command = w
					return rt, true
				}
			}
		case matchRegex:
			m := rt.re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			ev.Command, ev.Match = m[0], make(map[string]string)
			for i, n := range rt.re.SubexpNames() {
				if n != "" {
					ev.Match[n] = m[i]
				}
			}
			return rt, true
		}
	}
	return route{}, false
}
