// Command simulator publishes randomized temperature/humidity readings to
// the MQTT sensor topic for local development.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type sensorReading struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

type simulator struct {
	temperature float64
	humidity    float64
}

func main() {
	var brokerURL string
	var topic string
	var clientID string
	var interval time.Duration
	var jitter time.Duration
	var count int
	var seed int64

	flag.StringVar(&brokerURL, "broker", "tcp://localhost:1883", "MQTT broker URL")
	flag.StringVar(&topic, "topic", "iot", "sensor topic to publish on")
	flag.StringVar(&clientID, "client-id", "climate-simulator", "MQTT client ID")
	flag.DurationVar(&interval, "interval", 2*time.Second, "base delay between emitted readings")
	flag.DurationVar(&jitter, "jitter", 500*time.Millisecond, "max random delay added to each interval")
	flag.IntVar(&count, "count", 0, "number of readings to emit (0 = infinite)")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 = use current time)")
	flag.Parse()

	if interval <= 0 {
		log.Fatal("interval must be > 0")
	}
	if jitter < 0 {
		log.Fatal("jitter must be >= 0")
	}
	if count < 0 {
		log.Fatal("count must be >= 0")
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	log.Printf("simulator started seed=%d broker=%s topic=%s interval=%s", seed, brokerURL, topic, interval)

	options := mqtt.NewClientOptions()
	options.AddBroker(brokerURL)
	options.SetClientID(clientID)
	options.SetAutoReconnect(true)

	client := mqtt.NewClient(options)
	if token := client.Connect(); !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		log.Fatalf("connect to broker: %v", token.Error())
	}
	defer client.Disconnect(250)

	model := simulator{
		temperature: 21.0,
		humidity:    46.0,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	emitted := 0
	for {
		if count > 0 && emitted >= count {
			log.Printf("simulation complete (%d readings sent)", emitted)
			return
		}

		reading := model.next(rng)
		if err := publishReading(client, topic, reading); err != nil {
			log.Printf("publish failed: %v", err)
		} else {
			emitted++
			log.Printf(
				"sent #%d temp=%.1f humidity=%.1f",
				emitted,
				reading.Temperature,
				reading.Humidity,
			)
		}

		delay := interval
		if jitter > 0 {
			delay += time.Duration(rng.Int63n(int64(jitter) + 1))
		}

		select {
		case <-ctx.Done():
			log.Printf("simulation stopped")
			return
		case <-time.After(delay):
		}
	}
}

func (sim *simulator) next(rng *rand.Rand) sensorReading {
	sim.temperature = clamp(sim.temperature+rng.NormFloat64()*0.15, 16.0, 32.0)
	sim.humidity = clamp(sim.humidity+rng.NormFloat64()*0.7, 25.0, 80.0)

	return sensorReading{
		Temperature: round1(sim.temperature),
		Humidity:    round1(sim.humidity),
	}
}

func publishReading(client mqtt.Client, topic string, reading sensorReading) error {
	body, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	token := client.Publish(topic, 0, false, body)
	if !token.WaitTimeout(2 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	return token.Error()
}

func clamp(value float64, min float64, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
