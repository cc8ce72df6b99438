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

package httpsvc_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/containers/runnable-scheduler/pkg/httpsvc"
)

func TestLegacyScheduleEndpoint(t *testing.T) {
	svc := httpsvc.New()
	require.NoError(t, svc.Start("127.0.0.1:18765"))
	defer svc.Stop()
	time.Sleep(50 * time.Millisecond)

	body := map[string]interface{}{
		"runnables": map[string]interface{}{
			"A": map[string]interface{}{"type": "periodic", "executionTime": 3, "period": 10},
			"B": map[string]interface{}{"type": "event", "executionTime": 2, "deps": []string{"A"}},
		},
		"numCores":       1,
		"simulationTime": 5,
		"algorithm":      "fcfs",
	}
	buf, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post("http://127.0.0.1:18765/v1/schedule", "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Success            bool `json:"success"`
		TotalExecutionTime int  `json:"totalExecutionTime"`
		ExecutionLog       []struct {
			Task  string `json:"task"`
			Start int    `json:"start"`
			End   int    `json:"end"`
		} `json:"executionLog"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.Equal(t, 5, out.TotalExecutionTime)
	require.Len(t, out.ExecutionLog, 2)
	assert.Equal(t, "A", out.ExecutionLog[0].Task)
	assert.Equal(t, "B", out.ExecutionLog[1].Task)
}

func TestHealthzAndMetricsEndpoints(t *testing.T) {
	svc := httpsvc.New()
	require.NoError(t, svc.Start("127.0.0.1:18766"))
	defer svc.Stop()
	time.Sleep(50 * time.Millisecond)

	resp, err := http.Get("http://127.0.0.1:18766/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get("http://127.0.0.1:18766/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGraphScheduleEndpointRejectsBadJSON(t *testing.T) {
	svc := httpsvc.New()
	require.NoError(t, svc.Start("127.0.0.1:18767"))
	defer svc.Stop()
	time.Sleep(50 * time.Millisecond)

	resp, err := http.Post("http://127.0.0.1:18767/v1/graph", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
