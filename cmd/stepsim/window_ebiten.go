//go:build ebiten

package main

import (
	"github.com/san-kum/stepsim/internal/gui"
	"github.com/san-kum/stepsim/internal/gui/ebitenwin"
)

func newWindow(title string) gui.Window {
	return ebitenwin.New(title)
}
