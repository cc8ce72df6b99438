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

// scheduler-server runs the scheduling kernel behind the §6 HTTP/JSON
// service surface.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/containers/runnable-scheduler/pkg/config"
	"github.com/containers/runnable-scheduler/pkg/healthz"
	"github.com/containers/runnable-scheduler/pkg/httpsvc"
	logger "github.com/containers/runnable-scheduler/pkg/log"
)

var log = logger.Default()

func main() {
	cfg := config.Default()
	config.RegisterFlags(flag.CommandLine, &cfg)
	printConfig := flag.Bool("print-config", false, "print the effective configuration and exit")
	flag.Parse()

	if level, err := logger.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		log.Warn("ignoring invalid -log-level %q: %v", cfg.LogLevel, err)
	}
	logger.SetupDebugToggleSignal(syscall.SIGUSR1)
	defer logger.Flush()

	if *printConfig {
		config.Print(cfg)
		return
	}

	healthz.RegisterHealthChecker("scheduler-server", func() (healthz.Status, error) {
		return healthz.Healthy, nil
	})

	svc := httpsvc.New()
	if err := svc.Start(cfg.ListenAddr); err != nil {
		log.Fatal("failed to start HTTP server: %v", err)
	}
	log.Info("scheduler-server listening on %s", cfg.ListenAddr)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	log.Info("shutting down")
	svc.Stop()
}
