//go:build !tinygo

// Command bozterm runs the console in a terminal: the LCD, LEDs and speaker
// are drawn with lipgloss and the keyboard drives the panel.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bozzard/app"
	"bozzard/hal"
	"bozzard/internal/config"
)

func main() {
	var (
		configPath string
		hz         int
	)
	flag.StringVar(&configPath, "config", "", "YAML config file (defaults when empty).")
	flag.IntVar(&hz, "hz", 0, "Tick rate (0 = config value).")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if hz <= 0 {
		hz = cfg.Host.Hz
	}
	// The terminal owns stdout.
	if cfg.Serial.Port == "stdio" {
		cfg.Serial.Port = ""
	}

	logs := newLogTail(logLines)
	h := hal.NewHost(hal.HostConfig{
		EEPROMPath: cfg.EEPROM.Path,
		EEPROMSize: cfg.EEPROM.SizeBytes,
		SerialPort: cfg.Serial.Port,
		SerialBaud: cfg.Serial.Baud,
		BatteryMv:  cfg.Host.BatteryMv,
		Audio:      false,
		Log:        logs,
	})
	defer h.Close()

	sys, err := app.NewSystem(h, app.Options{Config: cfg})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer sys.Close()

	m := newModel(h, sys.Step, logs, time.Second/time.Duration(hz))
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
