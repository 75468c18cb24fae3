// Copyright 2025 Joseph Cumines

//go:build windows

package main

import (
	"github.com/joeycumines/WindowsUseSDK/internal/automation"
	"github.com/joeycumines/WindowsUseSDK/internal/win32"
)

func newDesktop() automation.Desktop {
	return win32.NewDesktop()
}
