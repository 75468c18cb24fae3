// Copyright 2025 Joseph Cumines

//go:build !windows

package main

import (
	"errors"

	"github.com/joeycumines/WindowsUseSDK/internal/automation"
)

// unsupportedDesktop keeps the binary buildable on non-Windows hosts for
// development; every enumeration fails until run on Windows.
type unsupportedDesktop struct{}

func (unsupportedDesktop) Windows() ([]automation.Window, error) {
	return nil, errors.New("desktop automation requires Windows")
}

func newDesktop() automation.Desktop {
	return unsupportedDesktop{}
}
