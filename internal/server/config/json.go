package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/dvi/internal/flagx"
	"github.com/dmitrijs2005/dvi/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Durations use timex.Duration so both "15m" and integer nanoseconds
// are accepted. Keys missing from the file leave the current value alone.
type JsonConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	S3RootUser                  *string         `json:"s3_root_user"`
	S3RootPassword              *string         `json:"s3_root_password"`
	S3Bucket                    *string         `json:"s3_bucket"`
	S3Region                    *string         `json:"s3_region"`
	S3BaseEndpoint              *string         `json:"s3_base_endpoint"`
	PhotoURLValidityDuration    *timex.Duration `json:"photo_url_validity_duration"`
	LogFile                     *string         `json:"log_file"`
	LogMaxAgeDays               *int            `json:"log_max_age_days"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config into config. It panics if the file cannot be read or parsed.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFilePath()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	for _, f := range []struct {
		dst *string
		src *string
	}{
		{&config.EndpointAddrHTTP, c.EndpointAddrHTTP},
		{&config.EndpointAddrGRPC, c.EndpointAddrGRPC},
		{&config.DatabaseDSN, c.DatabaseDSN},
		{&config.SecretKey, c.SecretKey},
		{&config.S3RootUser, c.S3RootUser},
		{&config.S3RootPassword, c.S3RootPassword},
		{&config.S3Bucket, c.S3Bucket},
		{&config.S3Region, c.S3Region},
		{&config.S3BaseEndpoint, c.S3BaseEndpoint},
		{&config.LogFile, c.LogFile},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.PhotoURLValidityDuration != nil {
		config.PhotoURLValidityDuration = c.PhotoURLValidityDuration.Duration
	}
	if c.LogMaxAgeDays != nil {
		config.LogMaxAgeDays = *c.LogMaxAgeDays
	}
}
