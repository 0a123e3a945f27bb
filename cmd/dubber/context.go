package main

import (
	"fmt"
	"strings"
	"sync"

	"dubber/internal/config"
)

// commandContext lazily loads configuration and builds the daemon client
// shared by all subcommands.
type commandContext struct {
	configFlag *string
	bindFlag   *string

	mu     sync.Mutex
	cfg    *config.Config
	client *apiClient
}

func newCommandContext(configFlag, bindFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag, bindFlag: bindFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) apiClient() (*apiClient, error) {
	c.mu.Lock()
	if c.client != nil {
		defer c.mu.Unlock()
		return c.client, nil
	}
	c.mu.Unlock()

	bind := ""
	if c.bindFlag != nil {
		bind = strings.TrimSpace(*c.bindFlag)
	}
	if bind == "" {
		cfg, err := c.ensureConfig()
		if err != nil {
			return nil, err
		}
		bind = strings.TrimSpace(cfg.Paths.APIBind)
	}
	if bind == "" {
		return nil, fmt.Errorf("no API address configured; set paths.api_bind or pass --address")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = newAPIClient(bind)
	return c.client, nil
}
