// SPDX-License-Identifier: Unlicense OR MIT

// Package embedded implements the claim protocol, texture import, and
// shared-memory readback for embedded Wayland clients (C5). Grounded on
// the teacher's internal/unsafe package for the raw byte<->struct
// reinterpretation idiom, generalised here from "reinterpret a GL buffer
// as bytes" to "reinterpret an mmap'd region as an atomic header plus a
// pixel plane".
package embedded

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	maxW, maxH = 3840, 2160
	headerSize = 16 // serial u64 + width u32 + height u32, naturally aligned
	planeSize  = maxW * maxH * 4
	segSize    = headerSize + planeSize
)

// shmWriter owns one POSIX shared memory segment named
// /trixie-embed-<app_id> and implements the odd/even seq-lock write
// protocol described for the shared frame buffer.
type shmWriter struct {
	appID string
	fd    int
	mem   []byte
}

func shmName(appID string) string { return "/trixie-embed-" + appID }

// newShmWriter creates (or replaces) the segment. Per try_claim step 4,
// failures here are not fatal to the claim: the caller ignores the
// error and readback simply no-ops.
func newShmWriter(appID string) (*shmWriter, error) {
	name := shmName(appID)
	// glibc's shm_open is a thin wrapper around open() under /dev/shm;
	// x/sys/unix has no direct binding, so we reproduce it directly.
	fd, err := unix.Open("/dev/shm"+name, unix.O_CREAT|unix.O_RDWR|unix.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("shm_open %s: %w", name, err)
	}
	if err := unix.Ftruncate(fd, segSize); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("ftruncate %s: %w", name, err)
	}
	mem, err := unix.Mmap(fd, 0, segSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("mmap %s: %w", name, err)
	}
	return &shmWriter{appID: appID, fd: fd, mem: mem}, nil
}

func (w *shmWriter) serialPtr() *uint64 {
	return (*uint64)(unsafe.Pointer(&w.mem[0]))
}

func (w *shmWriter) widthPtr() *uint32 {
	return (*uint32)(unsafe.Pointer(&w.mem[8]))
}

func (w *shmWriter) heightPtr() *uint32 {
	return (*uint32)(unsafe.Pointer(&w.mem[12]))
}

func (w *shmWriter) plane() []byte {
	return w.mem[headerSize : headerSize+planeSize]
}

// write performs the odd-write-even seq-lock publish: pixels must be
// tightly packed top-origin RGBA8, exactly width*height*4 bytes.
func (w *shmWriter) write(width, height uint32, pixels []byte) {
	if int(width) > maxW || int(height) > maxH {
		return
	}
	sp := (*uint64)(unsafe.Pointer(w.serialPtr()))
	prev := atomic.LoadUint64(sp)
	atomic.StoreUint64(sp, prev|1)
	atomic.StoreUint32(w.widthPtr(), width)
	atomic.StoreUint32(w.heightPtr(), height)
	copy(w.plane(), pixels)
	atomic.StoreUint64(sp, prev+2)
}

// close unmaps, closes, and unlinks the segment per Removal.
func (w *shmWriter) close() {
	unix.Munmap(w.mem)
	unix.Close(w.fd)
	unix.Unlink("/dev/shm" + shmName(w.appID))
}

// Header mirrors the reader-side layout for documentation purposes;
// the multiplexer process is the actual reader and lives outside this
// module (see spec §6.3).
type Header struct {
	Serial uint64
	Width  uint32
	Height uint32
}
