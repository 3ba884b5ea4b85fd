package storage

import "context"

// Namespaced prefixes every key so several users can share one backend.
// Closing it does not close the shared backend.
type Namespaced struct {
	kv     KV
	prefix string
}

func WithPrefix(kv KV, prefix string) *Namespaced {
	return &Namespaced{kv: kv, prefix: prefix}
}

func (n *Namespaced) key(k string) string {
	return n.prefix + k
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.kv.Get(ctx, n.key(key))
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.kv.Set(ctx, n.key(key), value)
}

func (n *Namespaced) MultiRemove(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = n.key(k)
	}
	return n.kv.MultiRemove(ctx, prefixed...)
}

func (n *Namespaced) Close() error {
	return nil
}
