package config

import "fmt"

// SensorsConfig records the nominal update rates of the simulated sensors.
// The dead-reckoning loop does not consume them; they are reported at
// startup.
type SensorsConfig struct {
	GPSHz   float64 `json:"gps_hz"`
	DepthHz float64 `json:"depth_hz"`
	IMUHz   float64 `json:"imu_hz"`
}

func (c *SensorsConfig) SetDefaults() {
	setDefault(&c.GPSHz, 1)
	setDefault(&c.DepthHz, 5)
	setDefault(&c.IMUHz, 10)
}

func (c SensorsConfig) Validate() error {
	if c.GPSHz < 0 || c.DepthHz < 0 || c.IMUHz < 0 {
		return fmt.Errorf("rates must be >= 0")
	}
	return nil
}
