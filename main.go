/*
 * matiec - IL code generator driver.
 *
 * Copyright 2026, Foad Sojoodi Farimani
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/Foadsf/matiec/command/repl"
	diag "github.com/Foadsf/matiec/internal/diag"
	"github.com/Foadsf/matiec/internal/emitsink"
	"github.com/Foadsf/matiec/internal/ilgen"
	config "github.com/Foadsf/matiec/internal/ilgenconfig"
	"github.com/Foadsf/matiec/internal/ilunit"
	"github.com/Foadsf/matiec/internal/typequery"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optOut := getopt.StringLong("out", 'o', "", "Output file (default stdout)")
	optJobs := getopt.IntLong("jobs", 'j', 0, "Worker pool size (default GOMAXPROCS)")
	optInteractive := getopt.BoolLong("interactive", 'i', "Start the interactive console")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if *optLogFile != "" {
		logFile, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	debug := false
	Logger = slog.New(diag.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel}, &debug))
	slog.SetDefault(Logger)

	cfg := config.Default()
	if *optConfig != "" {
		f, err := os.Open(*optConfig)
		if err != nil {
			Logger.Error("cannot open configuration file", "path", *optConfig, "error", err.Error())
			os.Exit(1)
		}
		cfg, err = config.Load(f)
		f.Close()
		if err != nil {
			Logger.Error("configuration file error", "error", err.Error())
			os.Exit(1)
		}
	}
	if *optJobs > 0 {
		cfg.Jobs = *optJobs
	}

	if *optInteractive {
		repl.Run(cfg.Policy)
		return
	}

	paths := getopt.Args()
	if len(paths) == 0 {
		Logger.Error("no input compilation units given")
		getopt.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var out *os.File = os.Stdout
	if *optOut != "" {
		f, err := os.Create(*optOut)
		if err != nil {
			Logger.Error("cannot create output file", "path", *optOut, "error", err.Error())
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]string, len(paths))
	failed := false

	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup
	var mu sync.Mutex

dispatch:
	for i, path := range paths {
		select {
		case <-ctx.Done():
			Logger.Info("shutdown requested, draining in-flight units")
			break dispatch
		default:
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			frag, err := processUnit(path, cfg.Policy)
			if err != nil {
				Logger.Error("unit failed", "path", path, "error", err.Error())
				mu.Lock()
				failed = true
				mu.Unlock()
				return
			}
			results[i] = frag
		}(i, path)
	}
	wg.Wait()

	for _, frag := range results {
		if frag != "" {
			out.WriteString(frag)
		}
	}

	if failed {
		os.Exit(1)
	}
}

// processUnit loads one JSON-encoded compilation unit and emits every
// routine it contains, concatenated into a single fragment.
func processUnit(path string, policy ilgen.Policy) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	syms, routines, err := ilunit.Decode(f)
	if err != nil {
		return "", err
	}

	q := typequery.NewDefault()
	gen := ilgen.NewGenerator(q, syms)
	gen.Policy = policy

	var buf bytes.Buffer
	for _, r := range routines {
		sink := emitsink.New(&buf)
		if err := gen.Emit(r, sink); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
