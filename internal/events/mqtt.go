package events

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/SaganGromov/webcam-yolo-vigia/internal/logger"
)

// MQTTEmitter publishes events to an MQTT broker as JSON.
type MQTTEmitter struct {
	client mqtt.Client
	topic  string
}

// NewMQTTEmitter connects to the broker. The client auto-reconnects;
// publishes while disconnected fail and are reported to the caller.
func NewMQTTEmitter(broker, clientID, topic string) (*MQTTEmitter, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", broker))
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		logger.Info("MQTT", "connected to broker %s", broker)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		logger.Warn("MQTT", "connection lost, will auto-reconnect: %v", err)
	}

	client := mqtt.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return nil, fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connection failed: %w", err)
	}

	return &MQTTEmitter{client: client, topic: topic}, nil
}

// Emit publishes the event to <topic>/<type> with QoS 0.
func (e *MQTTEmitter) Emit(evt Event) error {
	if !e.client.IsConnected() {
		return fmt.Errorf("mqtt not connected")
	}

	payload, err := marshalEvent(evt)
	if err != nil {
		return err
	}

	topic := fmt.Sprintf("%s/%s", e.topic, evt.Type)
	token := e.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(2 * time.Second) {
		return fmt.Errorf("mqtt publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish failed: %w", err)
	}
	return nil
}

// Close disconnects from the broker with a short grace period.
func (e *MQTTEmitter) Close() error {
	if e.client.IsConnected() {
		e.client.Disconnect(250)
	}
	return nil
}
