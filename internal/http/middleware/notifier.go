package middleware

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

var (
	mqttClient mqtt.Client
	brokerURL  = "tcp://0.0.0.0:1883" // Default MQTT broker URL
)

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// SetBrokerURL allows configuration of the MQTT broker URL
func SetBrokerURL(url string) {
	brokerURL = url
}

// InitMQTT connects the server's publishing client. Display clients
// subscribe to their own refresh topic and re-pull the schedule when poked.
func InitMQTT(clientName string) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientName)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler
	opts.SetAutoReconnect(true)

	mqttClient = mqtt.NewClient(opts)
	if token := mqttClient.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %v", token.Error())
	}

	log.Info().Str("broker", brokerURL).Msg("MQTT client initialized")
	return nil
}

// NotifyDisplayRefresh pokes one display to re-fetch its schedule. Called
// after approvals and assignment mutations; best-effort, the display's
// auto-refresh interval covers missed pokes.
func NotifyDisplayRefresh(displayID string) {
	if mqttClient == nil || !mqttClient.IsConnected() {
		return
	}
	topic := fmt.Sprintf("displays/%s/refresh", displayID)
	token := mqttClient.Publish(topic, 1, false, "refresh")
	go func() {
		if token.Wait() && token.Error() != nil {
			log.Warn().Err(token.Error()).Str("topic", topic).Msg("failed to publish refresh")
		}
	}()
}
