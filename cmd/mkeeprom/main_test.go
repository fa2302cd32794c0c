//go:build !tinygo

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"bozzard/bozos/nvram"
)

func TestBuildWritesFormattedImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boz.eeprom")
	if err := build(path, 128, false); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 128 {
		t.Fatalf("image is %d bytes, want 128", len(data))
	}
	if !bytes.HasPrefix(data, []byte("BOZZARD\x00")) {
		t.Fatalf("missing header: % x", data[:nvram.HeaderBytes])
	}
	if !isBlank(data[nvram.HeaderBytes:]) {
		t.Fatal("regions not erased")
	}

	if err := build(path, 128, false); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
	if err := build(path, 4, true); err == nil {
		t.Fatal("expected error for image smaller than header")
	}
}

func TestDumpReportsRegions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boz.eeprom")
	if err := build(path, 256, false); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	data[nvram.HeaderBytes] = 0x2A
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := dump(&out, path); err != nil {
		t.Fatal(err)
	}
	var got layout
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("dump is not YAML: %v\n%s", err, out.String())
	}
	if !got.Valid || got.Size != 256 || len(got.Regions) == 0 {
		t.Fatalf("unexpected layout: %+v", got)
	}
	first := got.Regions[0]
	if first.Start != 0 || first.Blank || !strings.HasPrefix(first.Data, "2a") {
		t.Fatalf("first region = %+v", first)
	}
}

func TestDumpOfGarbageIsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.eeprom")
	if err := os.WriteFile(path, make([]byte, 64), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := dump(&out, path); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "valid: false") {
		t.Fatalf("dump:\n%s", out.String())
	}
}
