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

package log

import (
	"os"
	"strings"
)

const (
	// debugEnvVar seeds the debug level from the environment at startup.
	debugEnvVar = "SCHEDULER_LOG_DEBUG"
	// levelEnvVar seeds the logging level from the environment at startup.
	levelEnvVar = "SCHEDULER_LOG_LEVEL"
)

// ParseLevel parses a level name (debug, info, warn, error, fatal).
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	}
	return LevelInfo, loggerError("unknown logging level %q", name)
}

// init seeds the logging level from the environment, matching the
// teacher's convention of an env-driven debug toggle at process start.
func init() {
	if _, debug := os.LookupEnv(debugEnvVar); debug {
		SetLevel(LevelDebug)
		return
	}
	if name, ok := os.LookupEnv(levelEnvVar); ok {
		if l, err := ParseLevel(name); err == nil {
			SetLevel(l)
		}
	}
}
