package render

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/xtding233/waves-rank/internal/config"
)

type renderer interface{}

type fakeRenderer struct {
	got map[string]*structpb.Struct
}

func (f *fakeRenderer) desc() *grpc.ServiceDesc {
	method := func(name string) grpc.MethodDesc {
		return grpc.MethodDesc{
			MethodName: name,
			Handler: func(_ any, _ context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
				in := new(structpb.Struct)
				if err := dec(in); err != nil {
					return nil, err
				}
				if in.GetFields()["board"] == nil {
					return nil, status.Error(codes.InvalidArgument, "no board")
				}
				f.got[name] = in
				return wrapperspb.Bytes([]byte("png:" + name)), nil
			},
		}
	}
	return &grpc.ServiceDesc{
		ServiceName: "wavesrank.render.v1.Renderer",
		HandlerType: (*renderer)(nil),
		Methods:     []grpc.MethodDesc{method("RenderGachaRank"), method("RenderPracticeRank"), method("RenderSlashRank")},
	}
}

func startRenderer(t *testing.T) (*Client, *fakeRenderer) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	fake := &fakeRenderer{got: make(map[string]*structpb.Struct)}
	srv.RegisterService(fake.desc(), fake)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := Dial(config.RenderConfig{Addr: "passthrough:///bufnet", Timeout: 5 * time.Second}, nil,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, fake
}

func TestDisabled(t *testing.T) {
	c, err := Dial(config.RenderConfig{}, nil)
	require.NoError(t, err)
	assert.False(t, c.Enabled())
	_, err = c.Render(context.Background(), GachaRank, Payload{Board: 1})
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, c.Close())
}

func TestRenderSendsBoard(t *testing.T) {
	c, fake := startRenderer(t)

	board := struct {
		GroupID string
		Rows    []map[string]any
	}{GroupID: "g1", Rows: []map[string]any{{"rank": 1, "uid": "100"}}}
	png, err := c.Render(context.Background(), PracticeRank, Payload{Board: board, Avatars: map[string][]byte{"10": {1, 2}}})
	require.NoError(t, err)
	assert.Equal(t, []byte("png:RenderPracticeRank"), png)

	got := fake.got["RenderPracticeRank"].AsMap()
	b := got["board"].(map[string]any)
	assert.Equal(t, "g1", b["GroupID"])
	rows := b["Rows"].([]any)
	assert.Equal(t, 1.0, rows[0].(map[string]any)["rank"])
	assert.Equal(t, "AQI=", got["avatars"].(map[string]any)["10"])
}

func TestRenderError(t *testing.T) {
	c, _ := startRenderer(t)
	_, err := c.Render(context.Background(), SlashRank, Payload{})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
