// SPDX-License-Identifier: GPL-2.0-or-later

// Package conlog routes console output. Until a printer is set everything
// goes to slog.
package conlog

import (
	"fmt"
	"log/slog"
	"strings"
)

var (
	p  = logPrintf
	sp = logPrintf
)

func logPrintf(format string, v ...interface{}) {
	slog.Info(strings.TrimRight(fmt.Sprintf(format, v...), "\n"))
}

func SetPrintf(f func(string, ...interface{})) {
	p = f
}

func SetSafePrintf(f func(string, ...interface{})) {
	sp = f
}

func Printf(format string, v ...interface{}) {
	p(format, v...)
}

// SafePrintf is used for long listings.
func SafePrintf(format string, v ...interface{}) {
	sp(format, v...)
}
