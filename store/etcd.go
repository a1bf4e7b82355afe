package store

import (
	"context"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/namespace"
)

// Etcd maps each session to one key and uses the per-key Version counter
// for the optimistic check: a Txn compares the version it read before
// putting, so concurrent writers lose cleanly with ErrConflict.
type Etcd struct {
	cli *clientv3.Client
}

type EtcdConfig struct {
	Endpoints   []string
	Prefix      string
	DialTimeout time.Duration
}

func NewEtcd(conf EtcdConfig) (*Etcd, error) {
	if conf.DialTimeout == 0 {
		conf.DialTimeout = 5 * time.Second
	}
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   conf.Endpoints,
		DialTimeout: conf.DialTimeout,
	})
	if err != nil {
		return nil, err
	}
	if conf.Prefix != "" {
		cli.KV = namespace.NewKV(cli.KV, conf.Prefix)
		cli.Watcher = namespace.NewWatcher(cli.Watcher, conf.Prefix)
	}
	return &Etcd{cli: cli}, nil
}

// NewEtcdWithClient wraps an already configured client, for tests and
// for sharing the cluster connection with service discovery.
func NewEtcdWithClient(cli *clientv3.Client) *Etcd {
	return &Etcd{cli: cli}
}

func sessionKey(id string) string {
	return "session/" + id
}

func (e *Etcd) Read(ctx context.Context, id string) ([]byte, int64, error) {
	res, err := e.cli.Get(ctx, sessionKey(id))
	if err != nil {
		return nil, 0, err
	}
	if len(res.Kvs) == 0 {
		return nil, 0, ErrNotFound
	}
	kv := res.Kvs[0]
	return kv.Value, kv.Version, nil
}

func (e *Etcd) Write(ctx context.Context, id string, data []byte, expected int64) (int64, error) {
	key := sessionKey(id)

	var cmp clientv3.Cmp
	if expected == VersionNew {
		cmp = clientv3.Compare(clientv3.CreateRevision(key), "=", 0)
	} else {
		cmp = clientv3.Compare(clientv3.Version(key), "=", expected)
	}
	res, err := e.cli.Txn(ctx).
		If(cmp).
		Then(clientv3.OpPut(key, string(data))).
		Commit()
	if err != nil {
		return 0, err
	}
	if !res.Succeeded {
		return 0, ErrConflict
	}
	return expected + 1, nil
}

func (e *Etcd) Delete(ctx context.Context, id string) error {
	_, err := e.cli.Delete(ctx, sessionKey(id))
	return err
}

func (e *Etcd) Subscribe(ctx context.Context, id string) (<-chan Event, func(), error) {
	watchCtx, stop := context.WithCancel(ctx)
	wch := e.cli.Watch(watchCtx, sessionKey(id))

	out := make(chan Event, 16)
	var once sync.Once
	cancel := func() {
		once.Do(stop)
	}

	go func() {
		defer close(out)
		for res := range wch {
			if res.Err() != nil {
				return
			}
			for _, ev := range res.Events {
				if ev.Type != clientv3.EventTypePut {
					continue
				}
				select {
				case out <- Event{ID: id, Data: ev.Kv.Value, Version: ev.Kv.Version}:
				default:
				}
			}
		}
	}()
	return out, cancel, nil
}

func (e *Etcd) Close() error {
	return e.cli.Close()
}
