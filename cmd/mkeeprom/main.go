//go:build !tinygo

// Command mkeeprom writes a freshly formatted EEPROM image for the host build,
// or dumps the region layout of an existing one as YAML.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"bozzard/bozos/apps"
	"bozzard/bozos/nvram"
	"bozzard/internal/config"
)

func main() {
	var (
		outPath  string
		dumpPath string
		size     uint
		force    bool
	)
	flag.StringVar(&outPath, "out", config.DefaultEEPROMPath, "Output EEPROM image path.")
	flag.UintVar(&size, "size", config.DefaultEEPROMBytes, "EEPROM size (bytes).")
	flag.BoolVar(&force, "force", false, "Overwrite an existing image.")
	flag.StringVar(&dumpPath, "dump", "", "Dump the layout of an existing image instead.")
	flag.Parse()

	var err error
	if dumpPath != "" {
		err = dump(os.Stdout, dumpPath)
	} else {
		err = build(outPath, uint32(size), force)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func build(path string, size uint32, force bool) error {
	if size < nvram.HeaderBytes {
		return fmt.Errorf("size %d is smaller than the %d byte header", size, nvram.HeaderBytes)
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s exists (use -force)", path)
		}
	}
	mem := nvram.NewMem(int(size))
	if _, _, err := nvram.Open(mem); err != nil {
		return err
	}
	if err := os.WriteFile(path, mem.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type layout struct {
	Size    int      `yaml:"size"`
	Valid   bool     `yaml:"valid"`
	Regions []region `yaml:"regions"`
}

type region struct {
	App    string `yaml:"app"`
	Start  uint16 `yaml:"start"`
	Length uint16 `yaml:"length"`
	Blank  bool   `yaml:"blank"`
	Data   string `yaml:"data,omitempty"`
}

func dump(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Open formats an invalid image; work on a copy so the dump shows what
	// is on disk.
	mem := &nvram.Mem{Data: append([]byte(nil), data...)}
	store, formatted, err := nvram.Open(mem)
	if err != nil {
		return err
	}
	out := layout{Size: len(data), Valid: !formatted}
	for _, a := range apps.Table() {
		if a.EEPROMLength == 0 {
			continue
		}
		r := region{App: a.Name, Start: a.EEPROMStart, Length: a.EEPROMLength}
		if !formatted {
			reg, err := store.Region(a.EEPROMStart, a.EEPROMLength)
			if err != nil {
				return fmt.Errorf("%s: %w", a.Name, err)
			}
			buf := make([]byte, reg.Len())
			if err := reg.ReadAt(buf, 0); err != nil {
				return fmt.Errorf("%s: %w", a.Name, err)
			}
			r.Blank = isBlank(buf)
			if !r.Blank {
				r.Data = hex.EncodeToString(buf)
			}
		}
		out.Regions = append(out.Regions, r)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if c != 0xFF {
			return false
		}
	}
	return true
}
