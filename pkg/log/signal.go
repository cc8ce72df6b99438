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
	"os/signal"
)

// SetupDebugToggleSignal arranges for sig to toggle the global logging
// level between debug and info, matching the SIGUSR1 toggle used by the
// teacher's binaries for live debugging without a restart.
func SetupDebugToggleSignal(sig os.Signal) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sig)
	go func() {
		for range ch {
			log.Lock()
			if log.level <= LevelDebug {
				log.level = LevelInfo
			} else {
				log.level = LevelDebug
			}
			cur := log.level
			log.Unlock()
			Default().Info("logging level toggled to %s", cur)
		}
	}()
}

// Flush is a no-op for this logger (writes are unbuffered); it exists so
// callers can follow the teacher's startup sequence verbatim.
func Flush() {}

// SetStdLogger routes the standard library's "log" package default
// output through the named logger instance.
func SetStdLogger(source string) {
	SetSlogLogger(source)
}
