//go:build windows

package process_windows

import (
	"errors"
	"fmt"
	"unsafe"

	"gpause/process"

	"golang.org/x/sys/windows"
)

// systemThreadInformation mirrors SYSTEM_THREAD_INFORMATION, which follows
// each SYSTEM_PROCESS_INFORMATION record in the snapshot buffer.
type systemThreadInformation struct {
	KernelTime      int64
	UserTime        int64
	CreateTime      int64
	WaitTime        uint32
	StartAddress    uintptr
	ClientID        clientID
	Priority        int32
	BasePriority    int32
	ContextSwitches uint32
	ThreadState     uint32
	WaitReason      uint32
}

type clientID struct {
	UniqueProcess uintptr
	UniqueThread  uintptr
}

// querySystemProcesses returns one SystemProcessInformation snapshot,
// growing the buffer until the kernel stops reporting a length mismatch.
func querySystemProcesses() ([]byte, error) {
	size := uint32(512 * 1024)
	for {
		buf := make([]byte, size)
		var needed uint32
		err := windows.NtQuerySystemInformation(windows.SystemProcessInformation, unsafe.Pointer(&buf[0]), size, &needed)
		if err == nil {
			return buf, nil
		}
		if !errors.Is(err, windows.STATUS_INFO_LENGTH_MISMATCH) {
			return nil, fmt.Errorf("NtQuerySystemInformation: %w", err)
		}
		// processes may start between the two calls, leave some headroom
		if needed > size {
			size = needed + 64*1024
		} else {
			size *= 2
		}
	}
}

// parseSystemProcesses walks the NextEntryOffset chain of a snapshot.
func parseSystemProcesses(buf []byte) []process.ProcessEntry {
	var out []process.ProcessEntry

	offset := uintptr(0)
	for offset < uintptr(len(buf)) {
		spi := (*windows.SYSTEM_PROCESS_INFORMATION)(unsafe.Pointer(&buf[offset]))

		entry := process.ProcessEntry{
			PID:       process.ProcessID(spi.UniqueProcessID),
			Name:      imageName(spi),
			StartTime: uint64(spi.CreateTime),
		}

		if spi.NumberOfThreads > 0 {
			first := (*systemThreadInformation)(unsafe.Add(unsafe.Pointer(spi), unsafe.Sizeof(*spi)))
			threads := unsafe.Slice(first, spi.NumberOfThreads)
			entry.Threads = make([]process.ThreadInfo, 0, len(threads))
			for _, t := range threads {
				entry.Threads = append(entry.Threads, process.ThreadInfo{
					ID:         process.ThreadID(t.ClientID.UniqueThread),
					State:      process.ThreadState(t.ThreadState),
					WaitReason: process.WaitReason(t.WaitReason),
				})
			}
		}

		out = append(out, entry)

		if spi.NextEntryOffset == 0 {
			break
		}
		offset += uintptr(spi.NextEntryOffset)
	}
	return out
}

func imageName(spi *windows.SYSTEM_PROCESS_INFORMATION) string {
	if spi.UniqueProcessID == 0 {
		return "Idle"
	}
	name := spi.ImageName.String()
	if name == "" {
		return "System"
	}
	return process.BaseName(name)
}
