// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package pool

import (
	"encoding/binary"
	"os"
	"runtime"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/jaypipes/ghw"
)

// probeSource collects process/thread/system statistics as a fast-poll
// entropy source (Pool runs it on every fast poll). The original Windows
// implementation reads dozens of OS-specific handles and counters (process/thread IDs, cursor/caret
// position, message queue status, clipboard identifiers, window-station
// handles, performance counters, disk I/O counters per physical device,
// network stack statistics, kernel interrupt/exception counters); this is
// treated as an OS-abstraction plugin. This implementation collects the
// cross-platform subset the Go runtime and the ghw library can expose on
// every target: process/thread identity and timing, Go runtime memory
// statistics (standing in for working-set/heap probes), high-resolution
// time, disk sizes and usable memory via ghw (mirroring how
// rancher-elemental-toolkit's pkg/utils/getpartitions.go enumerates block
// devices through the same library), and the CPU count via the Go runtime.
//
// probeBucket names the three groups the probes are split into, the way the
// Windows RNG collector's source file separates them. Fill runs all three
// in one pass and reports a failure in any of them as a single StatusError
// for the whole source, not per bucket.
type probeBucket int

const (
	bucketProcess probeBucket = iota
	bucketDiskNetwork
	bucketNativeSystem
)

type probeSource struct {
	disableDisk bool // test hook: skip ghw disk enumeration
}

// NewProbeSource returns the process/system/disk/network probe source.
func NewProbeSource() Source { return &probeSource{} }

func (*probeSource) Name() string { return "system-probe" }

func (*probeSource) Available() bool { return true }

func (s *probeSource) Fill(buf []byte) Status {
	if len(buf) == 0 {
		return StatusOK
	}

	var merr *multierror.Error
	offset := 0
	write := func(b []byte) {
		if offset >= len(buf) {
			return
		}
		n := copy(buf[offset:], b)
		offset += n
	}

	// Bucket: process/thread probes.
	func() {
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], uint64(os.Getpid()))
		write(tmp[:])
		binary.LittleEndian.PutUint64(tmp[:], uint64(time.Now().UnixNano()))
		write(tmp[:])

		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		binary.LittleEndian.PutUint64(tmp[:], ms.HeapAlloc)
		write(tmp[:])
		binary.LittleEndian.PutUint64(tmp[:], ms.Mallocs^ms.Frees)
		write(tmp[:])
		binary.LittleEndian.PutUint64(tmp[:], uint64(runtime.NumGoroutine()))
		write(tmp[:])
	}()

	// Bucket: disk/network counters, via ghw (best-effort, soft-fail).
	if !s.disableDisk && offset < len(buf) {
		if block, err := ghw.Block(ghw.WithDisableTools(), ghw.WithDisableWarnings()); err == nil {
			var tmp [8]byte
			for _, disk := range block.Disks {
				binary.LittleEndian.PutUint64(tmp[:], disk.SizeBytes)
				write(tmp[:])
				if offset >= len(buf) {
					break
				}
			}
		} else {
			merr = multierror.Append(merr, err)
		}

		if mem, err := ghw.Memory(); err == nil && offset < len(buf) {
			var tmp [8]byte
			binary.LittleEndian.PutUint64(tmp[:], uint64(mem.TotalUsableBytes))
			write(tmp[:])
		} else if err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	// Bucket: "NT native"-equivalent system information; on non-Windows
	// platforms this degenerates to the high-resolution monotonic clock and
	// CPU count, which is what Windows's NtQuerySystemInformation calls
	// ultimately bottom out in for entropy purposes.
	func() {
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], uint64(time.Now().UnixNano()))
		write(tmp[:])
		binary.LittleEndian.PutUint64(tmp[:], uint64(runtime.NumCPU()))
		write(tmp[:])
	}()

	if offset == 0 {
		return StatusUnavailable
	}
	// Pad any remainder with the high-resolution clock rather than leaving
	// undefined bytes.
	for offset < len(buf) {
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], uint64(time.Now().UnixNano()))
		write(tmp[:])
		_ = tmp
	}

	if merr.ErrorOrNil() != nil {
		return StatusError
	}
	return StatusOK
}
