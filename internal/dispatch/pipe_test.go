package dispatch

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestOpenRequestPipe_CreatesFIFO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pipe")

	p, err := openRequestPipe(path)
	if err != nil {
		t.Fatalf("openRequestPipe: %v", err)
	}
	defer p.close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode()&os.ModeNamedPipe == 0 {
		t.Fatal("expected a named pipe")
	}
}

func TestOpenRequestPipe_RemovesStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pipe")
	if err := os.WriteFile(path, []byte("not a fifo"), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := openRequestPipe(path)
	if err != nil {
		t.Fatalf("openRequestPipe: %v", err)
	}
	defer p.close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode()&os.ModeNamedPipe == 0 {
		t.Fatal("expected stale file to be replaced by a FIFO")
	}
}

func TestRequestPipe_ReadWithNoWriterIsEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pipe")
	p, err := openRequestPipe(path)
	if err != nil {
		t.Fatalf("openRequestPipe: %v", err)
	}
	defer p.close()

	// With no writer ever connected, a non-blocking read on a FIFO behaves
	// like end-of-file, not "would block" -- exactly the case the
	// dispatcher's reopen loop is built to handle.
	buf, eof, err := p.read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !eof {
		t.Fatal("expected eof=true when no writer has ever connected")
	}
	if buf != nil {
		t.Fatalf("expected nil buffer on eof, got %v", buf)
	}
}

func TestRequestPipe_ReadWouldBlockWithConnectedWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pipe")
	p, err := openRequestPipe(path)
	if err != nil {
		t.Fatalf("openRequestPipe: %v", err)
	}
	defer p.close()

	wfd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	defer unix.Close(wfd)

	buf, eof, err := p.read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if eof {
		t.Fatal("expected eof=false while a writer is connected with no data")
	}
	if buf != nil {
		t.Fatalf("expected nil buffer on would-block, got %v", buf)
	}
}

func TestRequestPipe_ReadFullRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pipe")
	p, err := openRequestPipe(path)
	if err != nil {
		t.Fatalf("openRequestPipe: %v", err)
	}
	defer p.close()

	wfd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	defer unix.Close(wfd)

	payload := []byte{1, 0, 0, 0, 2, 0, 0, 0}
	if _, err := unix.Write(wfd, payload); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf, eof, err := p.read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if eof {
		t.Fatal("unexpected eof")
	}
	req, ok := decodeRequest(buf)
	if !ok {
		t.Fatalf("expected a complete request, got %d bytes", len(buf))
	}
	if req.StartCode != 1 || req.EndCode != 2 {
		t.Fatalf("got %+v", req)
	}
}

func TestRequestPipe_ReopenAfterWriterCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pipe")
	p, err := openRequestPipe(path)
	if err != nil {
		t.Fatalf("openRequestPipe: %v", err)
	}
	defer p.close()

	wfd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	if err := unix.Close(wfd); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	_, eof, err := p.read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !eof {
		t.Fatal("expected eof=true after writer closed with no data written")
	}

	if err := p.reopen(); err != nil {
		t.Fatalf("reopen: %v", err)
	}
}
