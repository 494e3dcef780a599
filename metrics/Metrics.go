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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var TotalRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "delay_export_http_requests_total",
		Help: "Number of get requests.",
	},
	[]string{"path", "code", "method"},
)

var HttpDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "delay_export_http_request_duration_seconds",
		Buckets: []float64{
			0.1, // 100 ms
			0.2,
			0.25,
			0.5,
			1,
			1.5,
			3,
			5,
			10,
		},
	},
	[]string{"path", "code", "method"},
)

var ExportTasksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "delay_export_tasks_total",
		Help: "Number of finished export tasks by result.",
	},
	[]string{"result"},
)

var ExportRenderDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "delay_export_render_duration_seconds",
		Help:    "Time spent rendering export files.",
		Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
	},
	[]string{"format"},
)

var ExportQueueSize = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "delay_export_queue_size",
		Help: "Export task count by status",
	},
	[]string{"status"},
)

var ExpiredExportsDeleted = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "delay_export_expired_deleted_total",
		Help: "Number of expired export records deleted by the cleanup job.",
	},
	[]string{},
)

func RegisterAllPrometheusApplicationMetrics() {
	prometheus.Register(TotalRequests)
	prometheus.Register(HttpDuration)
	prometheus.Register(ExportTasksTotal)
	prometheus.Register(ExportRenderDuration)
	prometheus.Register(ExportQueueSize)
	prometheus.Register(ExpiredExportsDeleted)
}
