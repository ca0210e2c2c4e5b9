// Package mqttmirror republishes activity records to an MQTT broker.
package mqttmirror

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/mtraver/beerbeat/measurement"
)

const waitDur = 10 * time.Second

func onConnect(client mqtt.Client) {
	log.Printf("[MQTT] Connected to MQTT broker")
}

func onConnectionLost(client mqtt.Client, err error) {
	log.Printf("[MQTT] Connection to MQTT broker lost: %v", err)
}

// Connect connects to the broker at the given URL, e.g. tcp://localhost:1883.
func Connect(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetOnConnectHandler(onConnect).
		SetConnectionLostHandler(onConnectionLost)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); !token.WaitTimeout(waitDur) {
		return nil, fmt.Errorf("MQTT connection attempt timed out after %v", waitDur)
	} else if token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %v", token.Error())
	}

	return client, nil
}

type Mirror struct {
	client mqtt.Client
	topic  string
}

func New(client mqtt.Client, topic string) *Mirror {
	return &Mirror{
		client: client,
		topic:  topic,
	}
}

// Publish publishes r as JSON at QoS 1 and waits for the broker to acknowledge it.
func (m *Mirror) Publish(ctx context.Context, r measurement.Record) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}

	token := m.client.Publish(m.topic, 1, false, b)
	if ok := token.WaitTimeout(waitDur); !ok {
		// Timed out.
		return fmt.Errorf("[MQTT] publish timed out after %v", waitDur)
	} else if token.Error() != nil {
		// Finished before timeout but failed to publish.
		return fmt.Errorf("[MQTT] failed to publish: %w", token.Error())
	}

	return nil
}

func (m *Mirror) Close() error {
	m.client.Disconnect(250)
	return nil
}
