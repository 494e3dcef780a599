// Copyright 2024-2025 NetCracker Technology Corporation
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

package utils

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfLog reports the time elapsed since start, as a warning once it exceeds threshold.
func PerfLog(op string, start time.Time, threshold time.Duration) {
	elapsed := time.Since(start)
	if elapsed > threshold {
		log.Warnf("PERF: %s took %d ms more than expected (%d ms)", op, elapsed.Milliseconds(), threshold.Milliseconds())
		return
	}
	log.Debugf("PERF: %s took %dms", op, elapsed.Milliseconds())
}
