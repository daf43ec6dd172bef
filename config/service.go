// Copyright 2025 NetApp, Inc. All Rights Reserved.

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/netapp/storage-api/utils/errors"
)

// ServiceConfig is the on-disk configuration of the service.
type ServiceConfig struct {
	// Backend is the flat key/value mapping handed to the backend's Initialize.
	Backend map[string]string `yaml:"backend"`
	REST    RESTConfig        `yaml:"rest"`
	Logging LoggingConfig     `yaml:"logging"`
	Auth    AuthConfig        `yaml:"auth"`
}

type RESTConfig struct {
	Address     string   `yaml:"address"`
	Port        string   `yaml:"port"`
	CertFile    string   `yaml:"certFile"`
	KeyFile     string   `yaml:"keyFile"`
	RateLimit   float64  `yaml:"rateLimit"`
	RateBurst   int      `yaml:"rateBurst"`
	ReadTimeout Duration `yaml:"readTimeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Debug  bool   `yaml:"debug"`
}

type AuthConfig struct {
	AdminGroup  string `yaml:"adminGroup"`
	GroupHeader string `yaml:"groupHeader"`
}

// Duration is a wrapper for time.Duration to support YAML unmarshaling
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	duration, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = duration
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// backendEnvOverrides maps environment variable suffixes to backend keys.
var backendEnvOverrides = map[string]string{
	"BACKEND":  "storageDriverName",
	"HOST":     "host",
	"USERNAME": "username",
	"PASSWORD": "password",
	"VSERVER":  "vserver",
}

// NewServiceConfig returns a configuration populated with defaults.
func NewServiceConfig() *ServiceConfig {
	c := &ServiceConfig{Backend: map[string]string{}}
	c.populateDefaults()
	return c
}

// LoadServiceConfig reads the YAML configuration at path from fs, applies environment
// overrides and fills in defaults. A missing file yields the defaults.
func LoadServiceConfig(fs afero.Fs, path string) (*ServiceConfig, error) {
	c := &ServiceConfig{}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("could not stat config file %s; %v", path, err)
	}
	if exists {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("could not read config file %s; %v", path, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, errors.ValidationError("config", "could not parse %s; %v", path, err)
		}
	}

	c.applyEnvironment(os.LookupEnv)
	c.populateDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *ServiceConfig) applyEnvironment(lookup func(string) (string, bool)) {
	if c.Backend == nil {
		c.Backend = map[string]string{}
	}
	for suffix, key := range backendEnvOverrides {
		if value, ok := lookup(ConfigEnvPrefix + suffix); ok {
			c.Backend[key] = value
		}
	}
	if value, ok := lookup(ConfigEnvPrefix + "LOG_LEVEL"); ok {
		c.Logging.Level = value
	}
	if value, ok := lookup(ConfigEnvPrefix + "LOG_FORMAT"); ok {
		c.Logging.Format = value
	}
}

func (c *ServiceConfig) populateDefaults() {
	if c.Backend == nil {
		c.Backend = map[string]string{}
	}
	if c.Backend["storageDriverName"] == "" {
		c.Backend["storageDriverName"] = DefaultStorageDriverName
	}
	if c.REST.Address == "" {
		c.REST.Address = DefaultRESTAddress
	}
	if c.REST.Port == "" {
		c.REST.Port = DefaultRESTPort
	}
	if c.REST.RateLimit == 0 {
		c.REST.RateLimit = DefaultRESTRateLimit
	}
	if c.REST.RateBurst == 0 {
		c.REST.RateBurst = DefaultRESTRateBurst
	}
	if c.REST.ReadTimeout.Duration == 0 {
		c.REST.ReadTimeout.Duration = HTTPTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Auth.AdminGroup == "" {
		c.Auth.AdminGroup = DefaultAdminGroup
	}
	if c.Auth.GroupHeader == "" {
		c.Auth.GroupHeader = DefaultGroupHeader
	}
}

// Validate checks the parts of the configuration the service cannot start without.
func (c *ServiceConfig) Validate() error {
	if (c.REST.CertFile == "") != (c.REST.KeyFile == "") {
		return errors.ValidationError("rest", "certFile and keyFile must be set together")
	}
	if c.REST.RateLimit < 0 {
		return errors.ValidationError("rest.rateLimit", "must be greater than or equal to 0")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return errors.ValidationError("logging.format", "unknown log format %s", c.Logging.Format)
	}
	return nil
}

// StorageDriverName returns the configured backend kind.
func (c *ServiceConfig) StorageDriverName() string {
	return c.Backend["storageDriverName"]
}

// String hides credentials.
func (c *ServiceConfig) String() string {
	redacted := make(map[string]string, len(c.Backend))
	for k, v := range c.Backend {
		if k == "password" {
			v = "<REDACTED>"
		}
		redacted[k] = v
	}
	return fmt.Sprintf("{Backend:%v REST:%+v Logging:%+v Auth:%+v}", redacted, c.REST, c.Logging, c.Auth)
}
