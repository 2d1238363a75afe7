// internal/writer/mqtt_target.go
package writer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	cfg "sts-replicator/internal/config"
	"sts-replicator/internal/poller"
	"sts-replicator/internal/sts"
)

const (
	mqttConnectTimeout = 10 * time.Second
	mqttPublishTimeout = 5 * time.Second
	mqttDisconnectMs   = 250
)

// mqttTarget publishes one JSON message per datum on <topic>/<id>.
type mqttTarget struct {
	client mqtt.Client
	topic  string
}

// sample is the JSON shape published per datum. Only the payload slots the
// kind uses are present.
type sample struct {
	ID        int64    `json:"id"`
	Timestamp int64    `json:"timestamp"`
	Kind      string   `json:"kind"`
	Int       *int64   `json:"int,omitempty"`
	Float     *float64 `json:"float,omitempty"`
	Text      *string  `json:"text,omitempty"`
}

func newMQTTTarget(c cfg.MQTTTargetConfig) (*mqttTarget, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(c.Broker)
	opts.SetClientID(c.ClientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		client.Disconnect(mqttDisconnectMs)
		return nil, errors.New("mqtt connect timeout")
	}
	if err := token.Error(); err != nil {
		client.Disconnect(mqttDisconnectMs)
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}

	return &mqttTarget{client: client, topic: strings.TrimSuffix(c.Topic, "/")}, nil
}

func (t *mqttTarget) Name() string { return "mqtt" }

func (t *mqttTarget) Deliver(res poller.PollResult) error {
	var errs []string

	for _, d := range res.Data {
		payload, err := json.Marshal(toSample(d))
		if err != nil {
			errs = append(errs, fmt.Sprintf("marshal id=%d err=%v", d.ID(), err))
			continue
		}

		topic := fmt.Sprintf("%s/%d", t.topic, d.ID())
		token := t.client.Publish(topic, 1, false, payload)
		if !token.WaitTimeout(mqttPublishTimeout) {
			errs = append(errs, fmt.Sprintf("publish id=%d timeout", d.ID()))
			continue
		}
		if err := token.Error(); err != nil {
			errs = append(errs, fmt.Sprintf("publish id=%d err=%v", d.ID(), err))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}

func (t *mqttTarget) Close() error {
	t.client.Disconnect(mqttDisconnectMs)
	return nil
}

func toSample(d sts.Datum) sample {
	s := sample{
		ID:        d.ID(),
		Timestamp: d.Timestamp(),
		Kind:      d.Kind().String(),
	}

	switch d.Kind() {
	case sts.KindInteger:
		v := d.Int()
		s.Int = &v
	case sts.KindFloat, sts.KindExponent:
		v := d.Float()
		s.Float = &v
	case sts.KindText:
		v := d.Text()
		s.Text = &v
	case sts.KindIntegerWithText:
		iv, tv := d.Int(), d.Text()
		s.Int = &iv
		s.Text = &tv
	case sts.KindFloatWithText:
		fv, tv := d.Float(), d.Text()
		s.Float = &fv
		s.Text = &tv
	}

	return s
}
