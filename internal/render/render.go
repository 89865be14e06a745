// Package render sends leaderboards to the remote image renderer over gRPC.
package render

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/xtding233/waves-rank/internal/config"
)

const service = "/wavesrank.render.v1.Renderer/"

// Kind names a renderer method.
type Kind string

const (
	GachaRank    Kind = "RenderGachaRank"
	PracticeRank Kind = "RenderPracticeRank"
	SlashRank    Kind = "RenderSlashRank"
)

// ErrDisabled is returned when no renderer address is configured.
var ErrDisabled = errors.New("renderer disabled")

type Client struct {
	conn    grpc.ClientConnInterface
	closer  func() error
	timeout time.Duration
	log     *zap.Logger
}

// Dial connects to cfg.Addr. An empty address yields a disabled client.
func Dial(cfg config.RenderConfig, log *zap.Logger, opts ...grpc.DialOption) (*Client, error) {
	if cfg.Addr == "" {
		return NewClient(nil, cfg.Timeout, log), nil
	}
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(cfg.Addr, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "dial renderer %s", cfg.Addr)
	}
	c := NewClient(conn, cfg.Timeout, log)
	c.closer = conn.Close
	return c, nil
}

func NewClient(conn grpc.ClientConnInterface, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{conn: conn, timeout: timeout, log: log.Named("render")}
}

func (c *Client) Enabled() bool { return c != nil && c.conn != nil }

func (c *Client) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}
	return c.closer()
}

// Payload is what the renderer receives: the board plus avatars keyed by user id.
type Payload struct {
	Board   any               `json:"board,omitempty"`
	Avatars map[string][]byte `json:"avatars,omitempty"` // base64 in the struct
}

// Render calls one renderer method and returns the PNG.
func (c *Client) Render(ctx context.Context, kind Kind, p Payload) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	req, err := toStruct(p)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	out := new(wrapperspb.BytesValue)
	if err := c.conn.Invoke(ctx, service+string(kind), req, out); err != nil {
		c.log.Error("render failed", zap.String("kind", string(kind)), zap.Error(err))
		return nil, errors.Wrapf(err, "render %s", kind)
	}
	c.log.Debug("rendered", zap.String("kind", string(kind)), zap.Int("bytes", len(out.GetValue())), zap.Duration("took", time.Since(start)))
	return out.GetValue(), nil
}

// toStruct goes through JSON so field names follow the json tags.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode render payload")
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrap(err, "encode render payload")
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, errors.Wrap(err, "encode render payload")
	}
	return s, nil
}
