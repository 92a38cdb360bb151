// SPDX-License-Identifier: MIT

package cmd

import (
	"crypto/tls"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/hey-its-brian/bambu-logger-controller/pkg/bambu"
)

const (
	mqttPort            = 8883
	mqttUser            = "bblp"
	connectTimeout      = 15 * time.Second
	publishTimeout      = 5 * time.Second
	pushIntervalSeconds = 5 // Request a full status dump every N seconds
)

// session is one MQTT connection to a printer. The underlying client
// auto-reconnects and re-subscribes, so a session survives printer
// reboots and network drops; publish failures during an outage surface
// as errors to the caller and are never retried here.
type session struct {
	cfg    *Config
	client mqtt.Client
	debug  *os.File
}

// dialPrinter connects to the printer's broker, subscribes to its report
// topic and requests an initial full status dump. onReport is invoked
// from the client's network goroutine for every inbound payload.
func dialPrinter(cfg *Config, clientID string, onReport func(payload []byte)) (*session, error) {
	s := &session{cfg: cfg}

	if cfg.DebugLog != "" {
		f, err := os.OpenFile(cfg.DebugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open debug log %s: %v", cfg.DebugLog, err)
		}
		s.debug = f
	}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("ssl://%s:%d", cfg.Host, mqttPort)).
		SetClientID(clientID).
		SetUsername(mqttUser).
		SetPassword(cfg.AccessCode).
		// The printer presents a self-signed certificate.
		SetTLSConfig(&tls.Config{InsecureSkipVerify: true}).
		SetProtocolVersion(4). // MQTT 3.1.1
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(time.Second).
		SetKeepAlive(30 * time.Second)

	opts.SetOnConnectHandler(func(c mqtt.Client) {
		// One-shot publishers pass a nil handler and never subscribe.
		if onReport == nil {
			return
		}
		// Subscribe on every (re)connect; subscriptions do not survive
		// a new broker session on the printer side.
		c.Subscribe(bambu.ReportTopic(cfg.Serial), 0, func(_ mqtt.Client, m mqtt.Message) {
			s.dump(m.Payload())
			onReport(m.Payload())
		})
		c.Publish(bambu.RequestTopic(cfg.Serial), 0, false, bambu.NewPushAll().Marshal())
	})

	s.client = mqtt.NewClient(opts)

	token := s.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to %s:%d: timeout after %s", cfg.Host, mqttPort, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s:%d: %v", cfg.Host, mqttPort, err)
	}

	return s, nil
}

// publish sends one command envelope to the printer's request topic.
func (s *session) publish(req *bambu.Request) error {
	token := s.client.Publish(bambu.RequestTopic(s.cfg.Serial), 0, false, req.Marshal())
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timeout", req.Label())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %v", req.Label(), err)
	}
	return nil
}

// pushAll requests a full status dump.
func (s *session) pushAll() error {
	return s.publish(bambu.NewPushAll())
}

// dump appends one raw report line to the debug log, if enabled.
func (s *session) dump(payload []byte) {
	if s.debug == nil {
		return
	}
	fmt.Fprintf(s.debug, "[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), payload)
}

// close disconnects from the broker and closes the debug log.
func (s *session) close() {
	s.client.Disconnect(250)
	if s.debug != nil {
		s.debug.Close()
	}
}
