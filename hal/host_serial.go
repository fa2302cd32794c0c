//go:build !tinygo

package hal

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/goburrow/serial"
)

const (
	hostSerialDefaultBaud = 9600
	hostSerialRxLimit     = 4096
)

// streamSerial turns a blocking stream into a Serial: a reader goroutine
// fills a buffer that Buffered and Read consume without blocking.
type streamSerial struct {
	w      io.Writer
	closer io.Closer

	mu  sync.Mutex
	rx  []byte
	err error
}

func openSerial(port string, baud int) (*streamSerial, error) {
	if port == "stdio" {
		return newStreamSerial(os.Stdin, os.Stdout, nil), nil
	}
	if baud <= 0 {
		baud = hostSerialDefaultBaud
	}
	p, err := serial.Open(&serial.Config{
		Address:  port,
		BaudRate: baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  50 * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	return newStreamSerial(p, p, p), nil
}

func newStreamSerial(r io.Reader, w io.Writer, c io.Closer) *streamSerial {
	s := &streamSerial{w: w, closer: c}
	go s.pump(r)
	return s
}

func (s *streamSerial) pump(r io.Reader) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		s.mu.Lock()
		if n > 0 && len(s.rx)+n <= hostSerialRxLimit {
			s.rx = append(s.rx, buf[:n]...)
		}
		if err != nil && !errors.Is(err, serial.ErrTimeout) {
			s.err = err
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
	}
}

func (s *streamSerial) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rx)
}

func (s *streamSerial) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rx) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		return 0, nil
	}
	n := copy(p, s.rx)
	s.rx = s.rx[n:]
	return n, nil
}

func (s *streamSerial) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s *streamSerial) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
