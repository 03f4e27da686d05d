package telemetry

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	paho "github.com/eclipse/paho.mqtt.golang"
)

// parkCapacity bounds how many messages wait out a broker outage.
const parkCapacity = 256

// RealPublisher publishes to an actual MQTT broker. While disconnected it
// parks messages in a ring buffer and replays them on reconnect.
type RealPublisher struct {
	client paho.Client

	mu     sync.Mutex
	parked *ringBuffer
}

// NewRealPublisher connects to the given broker, retrying the initial
// connection with exponential backoff.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{
		parked: newRingBuffer(parkCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("fairyfun").
		SetAutoReconnect(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) {
			p.replayParked()
		})

	p.client = paho.NewClient(opts)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	err := backoff.Retry(func() error {
		token := p.client.Connect()
		if !token.WaitTimeout(10 * time.Second) {
			return fmt.Errorf("connection timeout")
		}
		return token.Error()
	}, bo)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// PublishTouch sends a touch event. QoS 0; a lost touch event is not worth
// a retransmit queue.
func (p *RealPublisher) PublishTouch(event TouchEvent) error {
	payload, err := FormatTouchPayload(event)
	if err != nil {
		return fmt.Errorf("format touch payload: %w", err)
	}
	return p.publish(TopicEvents, 0, false, payload)
}

// PublishReport sends a periodic light telemetry report.
func (p *RealPublisher) PublishReport(report Report) error {
	payload, err := FormatReportPayload(report)
	if err != nil {
		return fmt.Errorf("format report payload: %w", err)
	}
	return p.publish(TopicEvents, 0, false, payload)
}

// PublishSystem sends a system lifecycle event. QoS 1 — startup, shutdown
// and degraded notices should survive a flaky link.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.publish(TopicSystem, 1, event.Retained, payload)
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.parked.add(parkedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		p.mu.Unlock()
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// replayParked flushes messages parked during an outage, oldest first.
func (p *RealPublisher) replayParked() {
	p.mu.Lock()
	msgs := p.parked.drain()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("telemetry: replaying %d parked messages", len(msgs))
	for _, m := range msgs {
		token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("telemetry: replay timeout on %s", m.topic)
		} else if err := token.Error(); err != nil {
			log.Printf("telemetry: replay error on %s: %v", m.topic, err)
		}
	}
}

// IsConnected reports whether the broker connection is active.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
