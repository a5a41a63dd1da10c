//go:build !ebiten

package main

import (
	"github.com/san-kum/stepsim/internal/gui"
	"github.com/san-kum/stepsim/internal/gui/raywin"
)

func newWindow(title string) gui.Window {
	return raywin.New(title)
}
