package clog

import (
	"context"
	"maps"
	"sync"
)

// attributeBag collects log attributes while a request travels through the
// middleware chain; AttributesHandler attaches them to every record logged
// with the request context.
type attributeBag struct {
	mu         sync.RWMutex
	attributes map[string]any
}

type attributeBagKey struct{}

func ContextWithSlog(ctx context.Context) context.Context {
	return context.WithValue(ctx, attributeBagKey{}, &attributeBag{
		attributes: make(map[string]any),
	})
}

func bagFrom(ctx context.Context) (*attributeBag, bool) {
	b, ok := ctx.Value(attributeBagKey{}).(*attributeBag)
	return b, ok
}

func AddAttribute(ctx context.Context, key string, value any) {
	b, ok := bagFrom(ctx)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attributes[key] = value
}

func AddAttributes(ctx context.Context, attributes map[string]any) {
	b, ok := bagFrom(ctx)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	mergeMaps(b.attributes, attributes)
}

func GetAttribute[T any](ctx context.Context, key string) T {
	var zero T
	b, ok := bagFrom(ctx)
	if !ok {
		return zero
	}
	b.mu.RLock()
	v, ok := b.attributes[key]
	b.mu.RUnlock()
	if !ok {
		return zero
	}
	typed, ok := v.(T)
	if !ok {
		return zero
	}
	return typed
}

func GetAttributes(ctx context.Context) map[string]any {
	b, ok := bagFrom(ctx)
	if !ok {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.attributes)
}

func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		vMap, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		if dstMap, ok := dst[k].(map[string]any); ok {
			mergeMaps(dstMap, vMap)
		} else {
			dst[k] = vMap
		}
	}
}

const (
	ErrorAttributeKey = "error.message"
	StackAttributeKey = "error.stack"
	UserAttributeKey  = "user"
)

func AddError(ctx context.Context, err error) {
	AddAttribute(ctx, ErrorAttributeKey, err)
}

func GetError(ctx context.Context) error {
	return GetAttribute[error](ctx, ErrorAttributeKey)
}

func AddStack(ctx context.Context, stack string) {
	AddAttribute(ctx, StackAttributeKey, stack)
}

func GetStack(ctx context.Context) string {
	return GetAttribute[string](ctx, StackAttributeKey)
}

// AddUser records the authenticated principal on the request log line.
func AddUser(ctx context.Context, userID string) {
	AddAttribute(ctx, UserAttributeKey, userID)
}
