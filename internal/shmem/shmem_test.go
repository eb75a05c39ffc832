package shmem

import "testing"

func TestHeapFactoryAllocatesZeroedBuffer(t *testing.T) {
	f := NewHeapFactory()

	buf, err := f.CreateSharedMemory(16)
	if err != nil {
		t.Fatalf("CreateSharedMemory: %v", err)
	}
	if len(buf) != 16 {
		t.Fatalf("len(buf) = %d, want 16", len(buf))
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("buf[%d] = %d, want 0", i, b)
		}
	}
}

func TestPlatformFactoryWithEmptyPipeNameFallsBackToHeap(t *testing.T) {
	f, err := NewPlatformFactory("")
	if err != nil {
		t.Fatalf("NewPlatformFactory: %v", err)
	}
	buf, err := f.CreateSharedMemory(8)
	if err != nil {
		t.Fatalf("CreateSharedMemory: %v", err)
	}
	if len(buf) != 8 {
		t.Fatalf("len(buf) = %d, want 8", len(buf))
	}
}
