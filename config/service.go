package config

import (
	"github.com/pushkit/pushkit/logger"
	"github.com/pushkit/pushkit/observability"
	"github.com/pushkit/pushkit/server"
	"github.com/pushkit/pushkit/sse"
)

// ServiceConfig is the full configuration tree for the pushkit service.
type ServiceConfig struct {
	Service       string               `yaml:"service" mapstructure:"service"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Stream        sse.Config           `yaml:"stream" mapstructure:"stream"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills unset fields with documented defaults. Missing
// options are never an error.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Service == "" {
		c.Service = "pushkit"
	}
	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks the configuration tree.
func (c *ServiceConfig) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return ValidateStruct(c)
}
