// Package storage keeps which table each user is playing on in etcd, so
// a reconnecting client can be routed back to its room on any frontend.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/topfreegames/pitaya/v3/pkg/cluster"
	"github.com/topfreegames/pitaya/v3/pkg/config"
	"github.com/topfreegames/pitaya/v3/pkg/constants"
	"github.com/topfreegames/pitaya/v3/pkg/logger"
	"github.com/topfreegames/pitaya/v3/pkg/modules"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/namespace"
)

// Binding is where one user currently plays.
type Binding struct {
	ServerId   string `json:"server_id"`
	ServerType string `json:"server_type"`
	MatchId    int32  `json:"match_id"`
	TableId    int32  `json:"table_id"`
}

// ETCDBinding is a pitaya module holding user-to-table bindings under a
// lease, so entries vanish with the server that wrote them.
type ETCDBinding struct {
	modules.Base
	cli             *clientv3.Client
	etcdEndpoints   []string
	etcdPrefix      string
	etcdDialTimeout time.Duration
	leaseTTL        time.Duration
	leaseID         clientv3.LeaseID
	thisServer      *cluster.Server
	stopChan        chan struct{}
}

func NewETCDBinding(server *cluster.Server, conf config.ETCDBindingConfig) *ETCDBinding {
	b := &ETCDBinding{
		thisServer: server,
		stopChan:   make(chan struct{}),
	}
	b.etcdDialTimeout = conf.DialTimeout
	b.etcdEndpoints = conf.Endpoints
	b.etcdPrefix = conf.Prefix
	b.leaseTTL = conf.LeaseTTL
	return b
}

func getUserBindingKey(uid string) string {
	return fmt.Sprintf("binding/%s", uid)
}

// Put records the table a user was seated at.
func (b *ETCDBinding) Put(uid string, matchID, tableID int32) error {
	binding := Binding{
		ServerId:   b.thisServer.ID,
		ServerType: b.thisServer.Type,
		MatchId:    matchID,
		TableId:    tableID,
	}

	value, err := json.Marshal(binding)
	if err != nil {
		return err
	}
	_, err = b.cli.Put(context.Background(), getUserBindingKey(uid), string(value), clientv3.WithLease(b.leaseID))
	return err
}

func (b *ETCDBinding) Remove(uid string) error {
	_, err := b.cli.Delete(context.Background(), getUserBindingKey(uid))
	return err
}

// Get looks up where a user is playing.
func (b *ETCDBinding) Get(uid string) (*Binding, error) {
	etcdRes, err := b.cli.Get(context.Background(), getUserBindingKey(uid))
	if err != nil {
		return nil, err
	}
	if len(etcdRes.Kvs) == 0 {
		return nil, constants.ErrBindingNotFound
	}

	binding := &Binding{}
	err = json.Unmarshal(etcdRes.Kvs[0].Value, binding)
	return binding, err
}

func (b *ETCDBinding) watchLeaseChan(c <-chan *clientv3.LeaseKeepAliveResponse) {
	for {
		select {
		case <-b.stopChan:
			return
		case kaRes := <-c:
			if kaRes == nil {
				logger.Log.Warn("[binding storage] error renewing etcd lease, rebootstrapping")
				for {
					err := b.bootstrapLease()
					if err != nil {
						logger.Log.Warn("[binding storage] error rebootstrapping lease, will retry in 5 seconds")
						time.Sleep(5 * time.Second)
						continue
					} else {
						return
					}
				}
			}
		}
	}
}

func (b *ETCDBinding) bootstrapLease() error {
	l, err := b.cli.Grant(context.TODO(), int64(b.leaseTTL.Seconds()))
	if err != nil {
		return err
	}
	b.leaseID = l.ID
	logger.Log.Debugf("[binding storage] got leaseID: %x", l.ID)
	// a closed keepalive channel means the lease must be rebootstrapped
	c, err := b.cli.KeepAlive(context.TODO(), b.leaseID)
	if err != nil {
		return err
	}
	<-c
	go b.watchLeaseChan(c)
	return nil
}

// Init starts the binding module.
func (b *ETCDBinding) Init() error {
	var cli *clientv3.Client
	var err error
	if b.cli == nil {
		cli, err = clientv3.New(clientv3.Config{
			Endpoints:   b.etcdEndpoints,
			DialTimeout: b.etcdDialTimeout,
		})
		if err != nil {
			return err
		}
		b.cli = cli
	}
	b.cli.KV = namespace.NewKV(b.cli.KV, b.etcdPrefix)
	err = b.bootstrapLease()
	if err != nil {
		return err
	}

	return nil
}

// Shutdown cleans the etcd client up.
func (b *ETCDBinding) Shutdown() error {
	close(b.stopChan)
	return b.cli.Close()
}
