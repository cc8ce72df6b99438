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

package config_test

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/containers/runnable-scheduler/pkg/config"
)

func TestDefault(t *testing.T) {
	c := config.Default()
	assert.Equal(t, 4, c.NumCores)
	assert.Equal(t, "fcfs", c.SchedulingPolicy)
	assert.Equal(t, "dynamic", c.AllocationPolicy)
	assert.Nil(t, c.IterationsPtr())
}

func TestRegisterFlagsOverridesDefaults(t *testing.T) {
	c := config.Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	config.RegisterFlags(fs, &c)

	require.NoError(t, fs.Parse([]string{"-num-cores=8", "-scheduling-policy=pas", "-iterations=3"}))

	assert.Equal(t, 8, c.NumCores)
	assert.Equal(t, "pas", c.SchedulingPolicy)
	require.NotNil(t, c.IterationsPtr())
	assert.Equal(t, 3, *c.IterationsPtr())
}

func TestIterationsPtrNilWhenUnset(t *testing.T) {
	c := config.Default()
	assert.Nil(t, c.IterationsPtr())
	c.Iterations = -1
	assert.Nil(t, c.IterationsPtr())
}
