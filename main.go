package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"quakeed/commandline"
	"quakeed/conlog"
	"quakeed/cvar"
	"quakeed/cvars"
	"quakeed/editor"
)

func applyFlags() {
	if g := commandline.Grid(); g > 0 {
		cvars.GridSize.SetValue(g)
	}
	if w := commandline.WorldSize(); w > 0 {
		cvars.WorldSize.SetValue(w)
	}
	if f := commandline.Format(); f != "" {
		cvars.TexCoordFormat.SetByString(f)
	}
	if commandline.LockTextures() {
		cvars.LockTextures.SetByString("1")
	}
	if commandline.Verbose() {
		cvars.Developer.SetByString("1")
	}
}

func main() {
	flag.Parse()
	cvars.Developer.SetCallback(func(cv *cvar.Cvar) {
		if cv.Bool() {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		} else {
			slog.SetLogLoggerLevel(slog.LevelInfo)
		}
	})
	applyFlags()

	printf := func(format string, v ...interface{}) {
		fmt.Fprintf(os.Stdout, format, v...)
	}
	conlog.SetPrintf(printf)
	conlog.SetSafePrintf(printf)

	var in io.Reader = os.Stdin
	if s := commandline.Script(); s != "" {
		f, err := os.Open(s)
		if err != nil {
			slog.Error("Could not open script", "err", err.Error())
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	session := editor.NewSession(cvars.Editing)
	if err := session.Run(in); err != nil {
		slog.Error("Reading commands failed", "err", err.Error())
		os.Exit(1)
	}
	if commandline.Snap() && session.Brush() != nil {
		line := "snap"
		if g := commandline.SnapGrid(); g > 0 {
			line += " " + strconv.Itoa(g)
		}
		if err := session.Execute(line); err != nil {
			conlog.Printf("%v\n", err)
		}
	}
	if commandline.Script() != "" && session.Failures() > 0 {
		os.Exit(1)
	}
}
