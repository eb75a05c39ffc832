//go:build windows

package shmem

import (
	"net"
	"sync"

	"github.com/Microsoft/go-winio"
)

// pipeSecurity restricts the shared-memory pipe to SYSTEM and interactively
// logged-in users, matching the session broker's socket ACL.
const pipeSecurity = "D:P(A;;GA;;;SY)(A;;GRGW;;;IU)"

// NamedPipeSharedMemoryFactory publishes the most recently allocated frame
// buffer to whatever process connects to pipeName, in place of a true
// CreateFileMapping-backed shared memory region: go-winio wraps named pipes,
// not file mappings, so a connecting peer pulls the latest buffer's bytes
// over the pipe rather than mapping the same pages.
type NamedPipeSharedMemoryFactory struct {
	pipeName string
	listener net.Listener

	mu     sync.Mutex
	latest []byte
}

// NewNamedPipeFactory creates the pipe listener and starts serving
// connections in the background.
func NewNamedPipeFactory(pipeName string) (*NamedPipeSharedMemoryFactory, error) {
	cfg := &winio.PipeConfig{
		SecurityDescriptor: pipeSecurity,
		InputBufferSize:    64 * 1024,
		OutputBufferSize:   64 * 1024,
	}

	listener, err := winio.ListenPipe(pipeName, cfg)
	if err != nil {
		return nil, err
	}

	f := &NamedPipeSharedMemoryFactory{pipeName: pipeName, listener: listener}
	go f.acceptLoop()
	return f, nil
}

// CreateSharedMemory allocates buf and records it as the latest buffer any
// newly connecting peer receives.
func (f *NamedPipeSharedMemoryFactory) CreateSharedMemory(size int) ([]byte, error) {
	buf := make([]byte, size)
	f.mu.Lock()
	f.latest = buf
	f.mu.Unlock()
	return buf, nil
}

// Close stops accepting new peer connections.
func (f *NamedPipeSharedMemoryFactory) Close() error {
	return f.listener.Close()
}

func (f *NamedPipeSharedMemoryFactory) acceptLoop() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		go f.serve(conn)
	}
}

func (f *NamedPipeSharedMemoryFactory) serve(conn net.Conn) {
	defer conn.Close()

	f.mu.Lock()
	buf := f.latest
	f.mu.Unlock()

	if buf != nil {
		conn.Write(buf)
	}
}

// NewPlatformFactory returns the Windows named-pipe factory when pipeName is
// non-empty, falling back to a heap factory otherwise.
func NewPlatformFactory(pipeName string) (interface {
	CreateSharedMemory(size int) ([]byte, error)
}, error) {
	if pipeName == "" {
		return NewHeapFactory(), nil
	}
	return NewNamedPipeFactory(pipeName)
}
