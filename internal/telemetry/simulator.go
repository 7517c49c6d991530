// Package telemetry simulates the live wellness signals shown on the
// dashboard gauges. All values are generated; no sensor data is ingested.
package telemetry

import (
	"math/rand"
	"time"
)

// Sample is one tick of simulated driver telemetry.
type Sample struct {
	Timestamp         time.Time `json:"timestamp"`
	FatigueScore      int       `json:"fatigue_score"`      // 0-100, higher is more alert
	HeartRateBPM      int       `json:"heart_rate_bpm"`     // resting-to-elevated band
	SteeringStability int       `json:"steering_stability"` // 0-100
	VoiceStress       int       `json:"voice_stress"`       // 0-100
}

// Rand is the subset of math/rand.Rand the simulator draws from.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// channel models one signal as a bounded random walk with a pull back
// towards its baseline.
type channel struct {
	value    float64
	baseline float64
	min, max float64
	jitter   float64
}

func (c *channel) step(rng Rand) int {
	c.value += (rng.Float64()*2 - 1) * c.jitter
	c.value += (c.baseline - c.value) * 0.05
	if c.value < c.min {
		c.value = c.min
	}
	if c.value > c.max {
		c.value = c.max
	}
	return int(c.value + 0.5)
}

// Simulator produces a continuous stream of plausible telemetry samples.
// Not safe for concurrent use; give each consumer its own instance.
type Simulator struct {
	rng       Rand
	fatigue   channel
	heartRate channel
	steering  channel
	voice     channel
}

// NewSimulator creates a simulator seeded at the dashboard's resting
// baselines. A nil rng falls back to a time-seeded source.
func NewSimulator(rng Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{
		rng:       rng,
		fatigue:   channel{value: 72, baseline: 72, min: 0, max: 100, jitter: 3},
		heartRate: channel{value: 72, baseline: 72, min: 55, max: 110, jitter: 4},
		steering:  channel{value: 85, baseline: 85, min: 0, max: 100, jitter: 5},
		voice:     channel{value: 40, baseline: 40, min: 0, max: 100, jitter: 6},
	}
}

// Next advances every signal one tick and stamps the sample with now.
func (s *Simulator) Next(now time.Time) Sample {
	return Sample{
		Timestamp:         now,
		FatigueScore:      s.fatigue.step(s.rng),
		HeartRateBPM:      s.heartRate.step(s.rng),
		SteeringStability: s.steering.step(s.rng),
		VoiceStress:       s.voice.step(s.rng),
	}
}
