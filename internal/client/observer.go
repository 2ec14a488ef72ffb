package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/valescamoura/hkgo/internal/constants"
	"github.com/valescamoura/hkgo/internal/http"
	"github.com/valescamoura/hkgo/pkg/hk"
)

// restObserver polls the hkbase observer endpoint for notifications.
type restObserver struct {
	httpClient *http.Client
	path       string
	repository string
	interval   time.Duration

	mu         sync.Mutex
	observerID string
	cancel     context.CancelFunc
	done       chan struct{}
	ch         chan hk.Notification
}

func newRestObserver(httpClient *http.Client, path, repository string, config *hk.ObserverConfig) *restObserver {
	interval := config.PollInterval
	if interval <= 0 {
		interval = constants.DefaultPollInterval
	}

	return &restObserver{
		httpClient: httpClient,
		path:       path,
		repository: repository,
		interval:   interval,
		ch:         make(chan hk.Notification, constants.NotificationBuffer),
	}
}

// Start implements hk.ObserverClient.Start.
func (o *restObserver) Start(ctx context.Context) error {
	resp, err := o.httpClient.Post(ctx, o.path+"/", map[string]any{"repository": o.repository})
	if err != nil {
		return wrapErr(err, "could not register the observer")
	}

	var registration struct {
		ObserverID string `json:"observerId"`
	}

	if err := json.Unmarshal(resp.Body, &registration); err != nil {
		return wrapErr(err, "could not register the observer")
	}

	pollCtx, cancel := context.WithCancel(context.Background())

	o.mu.Lock()
	o.observerID = registration.ObserverID
	o.cancel = cancel
	o.done = make(chan struct{})
	o.mu.Unlock()

	go o.poll(pollCtx)

	return nil
}

func (o *restObserver) poll(ctx context.Context) {
	defer close(o.done)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			resp, err := o.httpClient.Get(ctx, o.path+"/"+o.observerID, nil)
			if err != nil {
				continue
			}

			var batch []hk.Notification
			if err := json.Unmarshal(resp.Body, &batch); err != nil {
				continue
			}

			for _, notification := range batch {
				select {
				case <-ctx.Done():
					return
				case o.ch <- notification:
				}
			}
		}
	}
}

// Notifications implements hk.ObserverClient.Notifications.
func (o *restObserver) Notifications() <-chan hk.Notification {
	return o.ch
}

// Stop implements hk.ObserverClient.Stop.
func (o *restObserver) Stop() error {
	o.mu.Lock()
	cancel, done, observerID := o.cancel, o.done, o.observerID
	o.cancel = nil
	o.mu.Unlock()

	if cancel == nil {
		return hk.ErrObserverNotRegistered
	}

	cancel()
	<-done
	close(o.ch)

	ctx, cancelReq := context.WithTimeout(context.Background(), constants.DefaultHTTPTimeout)
	defer cancelReq()

	_, err := o.httpClient.Delete(ctx, o.path+"/"+observerID, nil)
	if err != nil {
		return wrapErr(err, "could not unregister the observer")
	}

	return nil
}

// natsObserver receives notifications over a NATS subscription instead of
// polling. The server publishes per-repository subjects under a fixed
// prefix.
type natsObserver struct {
	url     string
	subject string

	mu      sync.Mutex
	conn    *nats.Conn
	sub     *nats.Subscription
	stopped bool
	ch      chan hk.Notification
}

func newNATSObserver(repository string, config *hk.NATSObserverConfig) *natsObserver {
	subject := constants.ObserverSubjectPrefix + ".>"
	if repository != "" {
		subject = constants.ObserverSubjectPrefix + "." + repository
	}

	return &natsObserver{
		url:     config.URL,
		subject: subject,
		ch:      make(chan hk.Notification, constants.NotificationBuffer),
	}
}

// Start implements hk.ObserverClient.Start.
func (o *natsObserver) Start(ctx context.Context) error {
	conn, err := nats.Connect(o.url, nats.Name(constants.DefaultUserAgent+" observer"))
	if err != nil {
		return &hk.ClientError{Message: "could not connect to NATS", Err: err}
	}

	sub, err := conn.Subscribe(o.subject, func(msg *nats.Msg) {
		var notification hk.Notification
		if err := json.Unmarshal(msg.Data, &notification); err != nil {
			return
		}

		o.deliver(notification)
	})
	if err != nil {
		conn.Close()

		return &hk.ClientError{Message: fmt.Sprintf("could not subscribe to %s", o.subject), Err: err}
	}

	o.mu.Lock()
	o.conn = conn
	o.sub = sub
	o.mu.Unlock()

	return nil
}

// deliver hands a notification to the consumer, dropping it when the buffer
// is full. The mutex serializes sends against Stop closing the channel.
func (o *natsObserver) deliver(notification hk.Notification) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stopped {
		return
	}

	select {
	case o.ch <- notification:
	default:
	}
}

// Notifications implements hk.ObserverClient.Notifications.
func (o *natsObserver) Notifications() <-chan hk.Notification {
	return o.ch
}

// Stop implements hk.ObserverClient.Stop.
func (o *natsObserver) Stop() error {
	o.mu.Lock()
	conn, sub := o.conn, o.sub
	o.conn, o.sub = nil, nil
	o.stopped = true
	o.mu.Unlock()

	if conn == nil {
		return hk.ErrObserverNotRegistered
	}

	if err := sub.Unsubscribe(); err != nil {
		conn.Close()

		return &hk.ClientError{Message: "could not unsubscribe the observer", Err: err}
	}

	conn.Close()

	o.mu.Lock()
	close(o.ch)
	o.mu.Unlock()

	return nil
}
