package avatar

import (
	"context"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

type fakeDL struct {
	mu   sync.Mutex
	urls []string
	fail map[string]bool
}

func (d *fakeDL) Download(_ context.Context, endpoint, url string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.urls = append(d.urls, url)
	if d.fail[url] {
		return nil, errors.New("boom")
	}
	return []byte("img:" + url), nil
}

func TestGetSkipsNonNumeric(t *testing.T) {
	dl := &fakeDL{}
	f := New(dl, "https://q1.qlogo.cn/g?b=qq&nk=%s&s=100", false, 2, nil, nil)
	assert.Nil(t, f.Get(context.Background(), "abc"))
	assert.Nil(t, f.Get(context.Background(), ""))
	assert.Empty(t, dl.urls)
}

func TestGetCaches(t *testing.T) {
	dl := &fakeDL{}
	f := New(dl, "a/%s", true, 2, nil, nil)
	ctx := context.Background()
	assert.Equal(t, []byte("img:a/10"), f.Get(ctx, "10"))
	assert.Equal(t, []byte("img:a/10"), f.Get(ctx, "10"))
	assert.Len(t, dl.urls, 1)

	nocache := New(dl, "a/%s", false, 2, nil, nil)
	nocache.Get(ctx, "10")
	assert.Len(t, dl.urls, 2)
}

func TestGetAllKeepsOrder(t *testing.T) {
	dl := &fakeDL{fail: map[string]bool{"a/2": true}}
	f := New(dl, "a/%s", false, 3, nil, nil)
	got := f.GetAll(context.Background(), []string{"1", "2", "x", "3"})
	assert.Equal(t, [][]byte{[]byte("img:a/1"), nil, nil, []byte("img:a/3")}, got)
}
