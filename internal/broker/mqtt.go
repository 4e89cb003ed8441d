// Package broker forwards change events to an MQTT broker for downstream consumers.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

const (
	qos            = 1
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// Topic is the MQTT topic of an event type of an owner.
func Topic(ownerID, eventType string) string {
	return fmt.Sprintf("smartlog/%s/%s", ownerID, eventType)
}

// MQTTPublisher publishes events with QoS 1, not retained.
type MQTTPublisher struct {
	client mqtt.Client
}

// NewMQTTPublisher wraps a connected client.
func NewMQTTPublisher(client mqtt.Client) *MQTTPublisher {
	return &MQTTPublisher{client: client}
}

// Connect dials brokerURL (for example tcp://localhost:1883) and returns a publisher.
func Connect(brokerURL, clientID string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).WithField("broker", brokerURL).Warn("MQTT connection lost")
		})
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect %s: timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", brokerURL, err)
	}
	log.WithField("broker", brokerURL).Info("Connected to MQTT broker")
	return NewMQTTPublisher(client), nil
}

// Publish sends the event without waiting for the broker acknowledgement.
func (p *MQTTPublisher) Publish(_ context.Context, event models.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("type", event.Type).Error("Failed to encode event")
		return
	}
	topic := Topic(event.OwnerID, event.Type)
	token := p.client.Publish(topic, qos, false, payload)
	go func() {
		if !token.WaitTimeout(publishTimeout) {
			log.WithField("topic", topic).Warn("MQTT publish timed out")
			return
		}
		if err := token.Error(); err != nil {
			log.WithError(err).WithField("topic", topic).Warn("MQTT publish failed")
		}
	}()
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
