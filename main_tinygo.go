//go:build tinygo

package main

import (
	"bozzard/app"
	"bozzard/hal"
)

func main() {
	app.Run(hal.New())
}
