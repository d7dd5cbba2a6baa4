package term

import (
	"errors"
	"io"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// FDSource reads bytes from a raw-mode file descriptor. With VMIN=0 and
// VTIME=1 a read returns empty after 100ms, which is when a pending resize
// gets reported. A hung-up terminal also reads empty; that is reported as
// io.EOF.
type FDSource struct {
	fd     int
	resize *atomic.Bool
}

// NewFDSource reads from fd. resize may be nil.
func NewFDSource(fd int, resize *atomic.Bool) *FDSource {
	return &FDSource{fd: fd, resize: resize}
}

// NewInput returns a key decoder over fd.
func NewInput(fd int, resize *atomic.Bool) *Decoder {
	return NewDecoder(NewFDSource(fd, resize))
}

func (s *FDSource) resized() bool {
	return s.resize != nil && s.resize.Swap(false)
}

// hungUp reports whether the peer of fd has gone away.
func (s *FDSource) hungUp() bool {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil || n == 0 {
		return false
	}
	return fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0
}

func readErr(err error) error {
	if errors.Is(err, unix.EIO) {
		return io.EOF
	}
	return err
}

func (s *FDSource) ReadByte() (byte, error) {
	var b [1]byte
	for {
		if s.resized() {
			return 0, ErrResize
		}
		n, err := unix.Read(s.fd, b[:])
		if err != nil {
			if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
				continue
			}
			return 0, readErr(err)
		}
		if n == 1 {
			return b[0], nil
		}
		if s.hungUp() {
			return 0, io.EOF
		}
	}
}

func (s *FDSource) ReadByteWithin(d time.Duration) (byte, bool, error) {
	deadline := time.Now().Add(d)
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	for {
		left := time.Until(deadline)
		if left <= 0 {
			return 0, false, nil
		}
		n, err := unix.Poll(fds, int(left.Milliseconds())+1)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return 0, false, err
		}
		if n == 0 {
			return 0, false, nil
		}
		var b [1]byte
		rn, err := unix.Read(s.fd, b[:])
		if err != nil {
			if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
				continue
			}
			return 0, false, readErr(err)
		}
		if rn == 1 {
			return b[0], true, nil
		}
		if fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
			return 0, false, io.EOF
		}
	}
}
