// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package snapshot

import "strings"

// CPU mode keys of a per-cpu CounterRecord, in seconds.
const (
	KeyCPUUser    = "user"
	KeyCPUNice    = "nice"
	KeyCPUSystem  = "system"
	KeyCPUIdle    = "idle"
	KeyCPUIowait  = "iowait"
	KeyCPUIRQ     = "irq"
	KeyCPUSoftIRQ = "softirq"
	KeyCPUSteal   = "steal"
)

// CPUModes lists the CPU mode keys in export order.
var CPUModes = []string{
	KeyCPUUser,
	KeyCPUNice,
	KeyCPUSystem,
	KeyCPUIdle,
	KeyCPUIowait,
	KeyCPUIRQ,
	KeyCPUSoftIRQ,
	KeyCPUSteal,
}

// Disk keys of a per-device CounterRecord.
const (
	KeyDiskReadsCompleted  = "reads_completed"
	KeyDiskReadsMerged     = "reads_merged"
	KeyDiskReadBytes       = "read_bytes"
	KeyDiskReadTime        = "read_time_seconds"
	KeyDiskWritesCompleted = "writes_completed"
	KeyDiskWritesMerged    = "writes_merged"
	KeyDiskWrittenBytes    = "written_bytes"
	KeyDiskWriteTime       = "write_time_seconds"
	KeyDiskIOTime          = "io_time_seconds"
	KeyDiskIOTimeWeighted  = "io_time_weighted_seconds"
)

// Network keys of a per-interface CounterRecord.
const (
	KeyNetReceiveBytes    = "receive_bytes"
	KeyNetReceivePackets  = "receive_packets"
	KeyNetReceiveErrs     = "receive_errs"
	KeyNetReceiveDrop     = "receive_drop"
	KeyNetTransmitBytes   = "transmit_bytes"
	KeyNetTransmitPackets = "transmit_packets"
	KeyNetTransmitErrs    = "transmit_errs"
	KeyNetTransmitDrop    = "transmit_drop"
)

// Filesystem keys of a per-mount-point GaugeRecord.
const (
	KeyFSSize      = "size_bytes"
	KeyFSFree      = "free_bytes"
	KeyFSAvail     = "avail_bytes"
	KeyFSFiles     = "files"
	KeyFSFilesFree = "files_free"
)

// Process keys of a per-pid GaugeRecord.
const (
	KeyProcResident = "resident_memory_bytes"
	KeyProcVirtual  = "virtual_memory_bytes"
)

// Cache keys of a per-index GaugeRecord.
const (
	KeyCacheSize = "size_bytes"
)

// Entity label names.
const (
	LabelCPU        = "cpu"
	LabelMode       = "mode"
	LabelDevice     = "device"
	LabelMountPoint = "mountpoint"
	LabelFSType     = "fstype"
	LabelPID        = "pid"
	LabelComm       = "comm"
	LabelCacheIndex = "index"
	LabelCacheLevel = "level"
	LabelCacheType  = "type"
	LabelVendor     = "vendor"
	LabelModel      = "model"
)

// LabelValue returns s with invalid UTF-8 replaced by U+FFFD. Process names
// and mount points come from the kernel as raw bytes, while metric label
// values must be valid UTF-8.
func LabelValue(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
