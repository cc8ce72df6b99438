// Copyright The NRI Plugins Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the flag-driven configuration shared by the
// scheduler-cli and scheduler-server binaries, in the style of the teacher's main.go (package-level flag
// vars, a -print-config escape hatch, no config framework beyond the
// standard library's flag package).
package config

import (
	"flag"
	"fmt"
	"os"
)

// Config is the run configuration common to the CLI and the HTTP server.
type Config struct {
	NumCores         int
	SchedulingPolicy string
	AllocationPolicy string
	Iterations       int // 0 means "not set": kernel.Config.Iterations stays nil
	ListenAddr       string
	LogLevel         string
}

// Default returns the baseline configuration used when no flags are set.
func Default() Config {
	return Config{
		NumCores:         4,
		SchedulingPolicy: "fcfs",
		AllocationPolicy: "dynamic",
		ListenAddr:       ":8866",
		LogLevel:         "info",
	}
}

// RegisterFlags registers c's fields on fs, seeded with c's current
// values as defaults. Call Default() first if you want the baseline.
func RegisterFlags(fs *flag.FlagSet, c *Config) {
	fs.IntVar(&c.NumCores, "num-cores", c.NumCores, "number of logical cores available to the scheduler")
	fs.StringVar(&c.SchedulingPolicy, "scheduling-policy", c.SchedulingPolicy, "eligibility ordering policy: fcfs, pas, or criticality")
	fs.StringVar(&c.AllocationPolicy, "allocation-policy", c.AllocationPolicy, "core allocation policy: static or dynamic")
	fs.IntVar(&c.Iterations, "iterations", c.Iterations, "horizon multiplier I (T_end = I*W); 0 uses the default T_end = 2*W")
	fs.StringVar(&c.ListenAddr, "listen", c.ListenAddr, "HTTP listen address for the scheduler server")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "logging level: debug, info, warn, error")
}

// IterationsPtr returns nil when Iterations is unset (0), matching
// kernel.Config.Iterations' "absent means T_end = 2*W" contract.
func (c Config) IterationsPtr() *int {
	if c.Iterations <= 0 {
		return nil
	}
	v := c.Iterations
	return &v
}

// Print writes the effective configuration to stdout, matching the
// teacher's -print-config convention.
func Print(c Config) {
	fmt.Fprintf(os.Stdout, "num-cores:         %d\n", c.NumCores)
	fmt.Fprintf(os.Stdout, "scheduling-policy:  %s\n", c.SchedulingPolicy)
	fmt.Fprintf(os.Stdout, "allocation-policy:  %s\n", c.AllocationPolicy)
	fmt.Fprintf(os.Stdout, "iterations:         %d\n", c.Iterations)
	fmt.Fprintf(os.Stdout, "listen:             %s\n", c.ListenAddr)
	fmt.Fprintf(os.Stdout, "log-level:          %s\n", c.LogLevel)
}

// Describe prints a one-line usage note for each configuration key,
// matching the teacher's "config-help" subcommand.
func Describe(keys ...string) {
	all := map[string]string{
		"num-cores":         "number of logical cores available to the scheduler",
		"scheduling-policy": "eligibility ordering policy: fcfs, pas, or criticality",
		"allocation-policy": "core allocation policy: static or dynamic",
		"iterations":        "horizon multiplier I (T_end = I*W); unset uses T_end = 2*W",
		"listen":            "HTTP listen address for the scheduler server",
		"log-level":         "logging level: debug, info, warn, error",
	}
	if len(keys) == 0 {
		for k, v := range all {
			fmt.Fprintf(os.Stdout, "%-20s %s\n", k, v)
		}
		return
	}
	for _, k := range keys {
		if v, ok := all[k]; ok {
			fmt.Fprintf(os.Stdout, "%-20s %s\n", k, v)
		}
	}
}
