package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "scenario.toml")
	p.OnLoadComplete(ctx, "scenario.toml", 3, time.Second, nil)
	p.OnBuildStart(ctx, "abc", 3)
	p.OnBuildComplete(ctx, "abc", BuildStats{PUPaths: 4}, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "matrix")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/builds")
	h.OnResponse(ctx, "POST", "/v1/builds", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should default to NoopPipelineHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should default to NoopCacheHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should default to NoopHTTPHooks")
	}

	lh := NewLogHooks(log.New(&bytes.Buffer{}))
	SetPipelineHooks(lh)
	SetCacheHooks(lh)
	SetHTTPHooks(lh)
	if Pipeline() != PipelineHooks(lh) || Cache() != CacheHooks(lh) || HTTP() != HTTPHooks(lh) {
		t.Error("Set*Hooks should register the hooks")
	}

	SetPipelineHooks(nil)
	if Pipeline() != PipelineHooks(lh) {
		t.Error("SetPipelineHooks(nil) should keep the current hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset should restore the no-op hooks")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf)
	l.SetLevel(log.DebugLevel)
	h := NewLogHooks(l)
	ctx := context.Background()

	h.OnBuildComplete(ctx, "0123456789abcdef", BuildStats{PUPaths: 4, UniquePUs: 3}, time.Millisecond, nil)
	h.OnBuildComplete(ctx, "0123456789abcdef", BuildStats{}, 0, errors.New("boom"))
	h.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"built matrix", "pu_paths=4", "hash=0123456789ab", "build failed", "boom", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
