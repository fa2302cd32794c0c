//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"bozzard/app"
	"bozzard/hal"
	"bozzard/internal/config"
)

func main() {
	var (
		configPath string
		hc         hal.HeadlessConfig
	)
	flag.StringVar(&configPath, "config", "", "YAML config file (defaults when empty).")
	flag.BoolVar(&hc.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hc.Hz, "hz", 0, "Tick rate in headless mode (0 = config value).")
	flag.Uint64Var(&hc.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if hc.Hz == 0 {
		hc.Hz = cfg.Host.Hz
	}

	var sys *app.System
	newApp := func(h hal.HAL) func() error {
		s, err := app.NewSystem(h, app.Options{Config: cfg})
		if err != nil {
			return func() error { return err }
		}
		sys = s
		return s.Step
	}
	defer func() {
		if sys != nil {
			sys.Close()
		}
	}()

	if hc.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		// Ebiten audio needs the game loop, which headless mode lacks.
		hostCfg := hostConfig(cfg)
		hostCfg.Audio = false
		err = hal.RunHeadless(ctx, hostCfg, newApp, hc)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	} else {
		err = hal.RunWindow(hostConfig(cfg), newApp)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func hostConfig(cfg *config.Config) hal.HostConfig {
	return hal.HostConfig{
		EEPROMPath: cfg.EEPROM.Path,
		EEPROMSize: cfg.EEPROM.SizeBytes,
		SerialPort: cfg.Serial.Port,
		SerialBaud: cfg.Serial.Baud,
		BatteryMv:  cfg.Host.BatteryMv,
		Audio:      *cfg.Host.Audio,
	}
}
