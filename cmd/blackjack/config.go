package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lox/blackjack/internal/config"
)

type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Write a configuration file with the defaults"`
	Show ConfigShowCmd `cmd:"" help:"Print the effective configuration"`
}

type ConfigInitCmd struct {
	Path  string `arg:"" optional:"" default:"blackjack.hcl" help:"Where to write the file"`
	Force bool   `short:"f" help:"Overwrite an existing file"`
}

func (c *ConfigInitCmd) Run() error {
	if _, err := os.Stat(c.Path); err == nil && !c.Force {
		return fmt.Errorf("%s already exists, use --force to overwrite", c.Path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.DefaultConfig().Save(c.Path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", c.Path)
	return nil
}

type ConfigShowCmd struct {
	Config string `short:"c" default:"blackjack.hcl" help:"HCL configuration file"`
}

func (c *ConfigShowCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	_, err = os.Stdout.Write(cfg.Encode())
	return err
}
