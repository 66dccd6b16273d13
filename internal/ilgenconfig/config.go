/*
   Ilgenconfig - line-oriented configuration file parser for the
   naming-policy and worker-pool overrides.

   Copyright (c) 2026, Foad Sojoodi Farimani

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

// Package ilgenconfig loads the driver's optional configuration file:
//
//	# comment
//	key = value
//
// Recognised keys override the naming policy (cr_name, cr_backup_name,
// end_label, union_suffix, time_add, time_sub, time_mul, cmp_prefix,
// fb_body_suffix) and the worker-pool size (jobs). Unrecognised keys
// are a fatal error: a typo in a config file should not be silently
// ignored.
package ilgenconfig

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Foadsf/matiec/internal/ilgen"
)

// Config is the driver's loaded, typed configuration.
type Config struct {
	Policy ilgen.Policy
	Jobs   int
}

// Default returns the configuration a driver run uses when no config
// file is given.
func Default() Config {
	return Config{Policy: ilgen.DefaultPolicy(), Jobs: 0}
}

// Load reads key=value lines from r into a Config seeded from Default.
// A present-but-malformed line is a fatal error, not silently skipped.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := splitKeyValue(line)
		if err != nil {
			return cfg, errors.Wrapf(err, "ilgenconfig: line %d", lineNo)
		}
		if err := cfg.apply(key, value); err != nil {
			return cfg, errors.Wrapf(err, "ilgenconfig: line %d", lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, errors.Wrap(err, "ilgenconfig: read failed")
	}
	return cfg, nil
}

func splitKeyValue(line string) (string, string, error) {
	idx := strings.IndexByte(line, '=')
	if idx < 0 {
		return "", "", fmt.Errorf("expected 'key = value', got %q", line)
	}
	key := strings.TrimSpace(line[:idx])
	value := strings.TrimSpace(line[idx+1:])
	if key == "" {
		return "", "", fmt.Errorf("empty key in %q", line)
	}
	return key, value, nil
}

func (c *Config) apply(key, value string) error {
	switch key {
	case "cr_name":
		c.Policy.CRName = value
	case "cr_backup_name":
		c.Policy.CRBackupName = value
	case "end_label":
		c.Policy.EndLabel = value
	case "union_suffix":
		c.Policy.UnionSuffix = value
	case "time_add":
		c.Policy.TimeAdd = value
	case "time_sub":
		c.Policy.TimeSub = value
	case "time_mul":
		c.Policy.TimeMul = value
	case "cmp_prefix":
		c.Policy.CmpPrefix = value
	case "fb_body_suffix":
		c.Policy.FBBodySuffix = value
	case "jobs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("jobs must be an integer, got %q", value)
		}
		c.Jobs = n
	default:
		return fmt.Errorf("unrecognised config key %q", key)
	}
	return nil
}
