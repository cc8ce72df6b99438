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

package dataset

import "github.com/containers/runnable-scheduler/pkg/graph"

// FixedTrace returns the fixed reference graph ported from
// original_source/driving_mock.py: a small perception-to-actuation chain
// (radar/camera capture feeding sensor fusion, object detection, lane
// tracking, and finally brake/steering actuation). It is useful as a
// repeatable, hand-checkable replay input distinct from the randomly
// generated Shape-based graphs.
//
// FixedTraceCorePreferences returns the affinity hints the source
// assigned each node (0 for the two capture nodes and the two actuator
// nodes, 1 for the compute-bound perception chain), for use with
// kernel.Config's tri-core fixed-topology knob.
func FixedTrace() (*graph.Graph, error) {
	nodes := []graph.Node{
		{Name: "RadarCapture", Kind: graph.Periodic, ExecutionTime: 2, Period: 75, Priority: 1},
		{Name: "CameraCapture", Kind: graph.Periodic, ExecutionTime: 7, Period: 50, Priority: 0},

		{Name: "SensorFusion", Kind: graph.Event, ExecutionTime: 6, Priority: 1, Deps: []string{"RadarCapture", "CameraCapture"}},
		{Name: "ObjectDetection", Kind: graph.Event, ExecutionTime: 15, Priority: 1, Deps: []string{"SensorFusion"}},
		{Name: "TrajectoryPrediction", Kind: graph.Event, ExecutionTime: 8, Priority: 1, Deps: []string{"ObjectDetection"}},
		{Name: "CollisionRiskAssessment", Kind: graph.Event, ExecutionTime: 3, Priority: 2, Deps: []string{"TrajectoryPrediction"}},
		{Name: "EmergencyBrakeDecision", Kind: graph.Event, ExecutionTime: 2, Priority: 2, Deps: []string{"CollisionRiskAssessment"}},
		{Name: "ActuatorControl", Kind: graph.Event, ExecutionTime: 1, Priority: 2, Deps: []string{"EmergencyBrakeDecision"}},

		{Name: "LaneMarkingDetection", Kind: graph.Event, ExecutionTime: 6, Priority: 1, Deps: []string{"CameraCapture"}},
		{Name: "VehiclePositionEstimation", Kind: graph.Event, ExecutionTime: 4, Priority: 1, Deps: []string{"LaneMarkingDetection"}},
		{Name: "LaneDepartureWarning", Kind: graph.Event, ExecutionTime: 2, Priority: 1, Deps: []string{"VehiclePositionEstimation"}},
		{Name: "SteeringAngleCalculation", Kind: graph.Event, ExecutionTime: 2, Priority: 1, Deps: []string{"VehiclePositionEstimation"}},
		{Name: "SteeringActuatorControl", Kind: graph.Event, ExecutionTime: 1, Priority: 2, Deps: []string{"LaneDepartureWarning", "SteeringAngleCalculation"}},
	}
	return graph.New(nodes)
}

// FixedTraceCorePreferences returns the affinity map from driving_mock.py:
// the capture and actuator nodes pin to core 0, the perception/planning
// chain pins to core 1.
func FixedTraceCorePreferences() map[string]int {
	return map[string]int{
		"RadarCapture":              0,
		"CameraCapture":             0,
		"ActuatorControl":           0,
		"SteeringActuatorControl":   0,
		"SensorFusion":              1,
		"ObjectDetection":           1,
		"TrajectoryPrediction":      1,
		"CollisionRiskAssessment":   1,
		"EmergencyBrakeDecision":    1,
		"LaneMarkingDetection":      1,
		"VehiclePositionEstimation": 1,
		"LaneDepartureWarning":      1,
		"SteeringAngleCalculation":  1,
	}
}
