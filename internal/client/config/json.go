package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/dvi/internal/flagx"
	"github.com/dmitrijs2005/dvi/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell "absent" apart from "empty".
type JsonConfig struct {
	APIBaseURL          *string         `json:"api_base_url"`
	HealthEndpointAddr  *string         `json:"health_endpoint_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	ProbeTimeout        *timex.Duration `json:"probe_timeout"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	DataDir             *string         `json:"data_dir"`
	LogFile             *string         `json:"log_file"`
	LogMaxAgeDays       *int            `json:"log_max_age_days"`
}

// parseJson overlays Config with values from the file named by -c/-config.
// It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFilePath()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.HealthEndpointAddr, jc.HealthEndpointAddr)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.LogFile, jc.LogFile)
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.ProbeTimeout != nil {
		cfg.ProbeTimeout = jc.ProbeTimeout.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogMaxAgeDays != nil {
		cfg.LogMaxAgeDays = *jc.LogMaxAgeDays
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
