package st7789

import (
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
)

// Transport is a write-only byte channel that distinguishes the command
// phase from the data phase of every write.
type Transport interface {
	// Command sends a single controller command byte.
	Command(cmd byte) error
	// Data sends parameter or pixel bytes following the last command.
	Data(p []byte) error
}

// defaultMaxTx bounds a single Tx when the connection does not report a limit.
const defaultMaxTx = 4096

// spiTransport frames writes on an SPI connection with a D/C line:
// low for commands, high for data.
type spiTransport struct {
	c     spi.Conn
	dc    gpio.PinOut
	maxTx int
	cmd   [1]byte
}

func newSPITransport(c spi.Conn, dc gpio.PinOut) *spiTransport {
	maxTx := defaultMaxTx
	if l, ok := c.(conn.Limits); ok {
		if m := l.MaxTxSize(); m > 0 {
			maxTx = m
		}
	}
	return &spiTransport{c: c, dc: dc, maxTx: maxTx}
}

func (s *spiTransport) Command(cmd byte) error {
	if err := s.dc.Out(gpio.Low); err != nil {
		return err
	}
	s.cmd[0] = cmd
	return s.c.Tx(s.cmd[:], nil)
}

func (s *spiTransport) Data(p []byte) error {
	if err := s.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(p) > 0 {
		n := min(len(p), s.maxTx)
		if err := s.c.Tx(p[:n], nil); err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// Ports handed to NewSPI are claimed until the device is halted, so that
// two devices can never drive the same bus.
var (
	claimMu sync.Mutex
	claimed = map[spi.Port]struct{}{}
)

func claim(p spi.Port) error {
	claimMu.Lock()
	defer claimMu.Unlock()
	if _, ok := claimed[p]; ok {
		return ErrPortInUse
	}
	claimed[p] = struct{}{}
	return nil
}

func release(p spi.Port) {
	claimMu.Lock()
	defer claimMu.Unlock()
	delete(claimed, p)
}
