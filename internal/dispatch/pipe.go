package dispatch

import (
	"os"

	"golang.org/x/sys/unix"

	"cammini/pkg/apperror"
)

// requestPipe owns the named FIFO the dispatcher reads requests from. It
// recreates the FIFO at construction and supports reopening after all
// writers disconnect, matching the "keep the server alive across client
// disconnections" requirement.
type requestPipe struct {
	path string
	fd   int
}

// openRequestPipe removes any stale FIFO at path, recreates it with mode
// 0666, and opens it for non-blocking read.
func openRequestPipe(path string) (*requestPipe, error) {
	_ = os.Remove(path)
	if err := unix.Mkfifo(path, 0666); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to create request pipe").WithField(path)
	}

	p := &requestPipe{path: path}
	if err := p.open(); err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return p, nil
}

func (p *requestPipe) open() error {
	fd, err := unix.Open(p.path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternal, "failed to open request pipe").WithField(p.path)
	}
	p.fd = fd
	return nil
}

// reopen closes the current fd and opens the FIFO again. Called when read
// returns 0 bytes, meaning every writer has closed its end.
func (p *requestPipe) reopen() error {
	_ = unix.Close(p.fd)
	return p.open()
}

// read attempts one non-blocking read of up to requestSize bytes. It
// returns (nil, false, nil) on EAGAIN/EWOULDBLOCK ("would block, try
// again"), (nil, true, nil) on EOF (caller should reopen), and the read
// bytes otherwise.
func (p *requestPipe) read() (buf []byte, eof bool, err error) {
	b := make([]byte, requestSize)
	n, rerr := unix.Read(p.fd, b)
	if rerr != nil {
		if rerr == unix.EAGAIN || rerr == unix.EWOULDBLOCK {
			return nil, false, nil
		}
		return nil, false, rerr
	}
	if n == 0 {
		return nil, true, nil
	}
	return b[:n], false, nil
}

func (p *requestPipe) close() {
	_ = unix.Close(p.fd)
	_ = os.Remove(p.path)
}
