package st7789

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/flavioheleno/st7789/rgb565"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

func noDelay(time.Duration) {}

// phaseBus is both an spi.Port and its spi.Conn. Every Tx is stored with the
// level of the D/C pin at the time of the write.
type phaseBus struct {
	dc         *gpiotest.Pin
	max        int
	connectErr error

	connects int
	freq     physic.Frequency
	txs      []phaseTx
}

type phaseTx struct {
	dc gpio.Level
	w  []byte
}

func (b *phaseBus) String() string                   { return "phasebus" }
func (b *phaseBus) Halt() error                      { return nil }
func (b *phaseBus) Duplex() conn.Duplex              { return conn.Half }
func (b *phaseBus) MaxTxSize() int                   { return b.max }
func (b *phaseBus) LimitSpeed(physic.Frequency) error { return nil }

func (b *phaseBus) TxPackets([]spi.Packet) error {
	return errors.New("phasebus: packets not supported")
}

func (b *phaseBus) Tx(w, r []byte) error {
	b.txs = append(b.txs, phaseTx{dc: b.dc.Read(), w: append([]byte(nil), w...)})
	return nil
}

func (b *phaseBus) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if b.connectErr != nil {
		return nil, b.connectErr
	}
	b.connects++
	b.freq = f
	return b, nil
}

func TestSPITransportPhases(t *testing.T) {
	bus := &phaseBus{dc: &gpiotest.Pin{N: "DC"}, max: 4}
	tr := newSPITransport(bus, bus.dc)

	if err := tr.Command(cmdCASET); err != nil {
		t.Fatal(err)
	}
	if err := tr.Data([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}); err != nil {
		t.Fatal(err)
	}
	if err := tr.Command(cmdRAMWR); err != nil {
		t.Fatal(err)
	}

	want := []phaseTx{
		{gpio.Low, []byte{cmdCASET}},
		{gpio.High, []byte{1, 2, 3, 4}},
		{gpio.High, []byte{5, 6, 7, 8}},
		{gpio.High, []byte{9, 10}},
		{gpio.Low, []byte{cmdRAMWR}},
	}
	if len(bus.txs) != len(want) {
		t.Fatalf("got %d transfers, want %d", len(bus.txs), len(want))
	}
	for i, w := range want {
		if bus.txs[i].dc != w.dc || !bytes.Equal(bus.txs[i].w, w.w) {
			t.Errorf("tx[%d] = {%s % X}, want {%s % X}", i, bus.txs[i].dc, bus.txs[i].w, w.dc, w.w)
		}
	}
}

func TestSPITransportDefaultLimit(t *testing.T) {
	bus := &phaseBus{dc: &gpiotest.Pin{N: "DC"}}
	tr := newSPITransport(bus, bus.dc)
	if tr.maxTx != defaultMaxTx {
		t.Fatalf("maxTx = %d, want %d", tr.maxTx, defaultMaxTx)
	}
	if err := tr.Data(make([]byte, defaultMaxTx+10)); err != nil {
		t.Fatal(err)
	}
	if len(bus.txs) != 2 || len(bus.txs[0].w) != defaultMaxTx || len(bus.txs[1].w) != 10 {
		t.Errorf("unexpected split: %d transfers", len(bus.txs))
	}
}

func TestSPITransportDCError(t *testing.T) {
	bus := &phaseBus{dc: &gpiotest.Pin{N: "DC"}}
	tr := newSPITransport(bus, gpio.INVALID)
	if err := tr.Command(cmdSWRESET); err == nil {
		t.Error("Command should fail with an invalid dc pin")
	}
	if err := tr.Data([]byte{0}); err == nil {
		t.Error("Data should fail with an invalid dc pin")
	}
	if len(bus.txs) != 0 {
		t.Errorf("got %d transfers, want none", len(bus.txs))
	}
}

func TestNewSPIPlayback(t *testing.T) {
	var ops []conntest.IO
	w := func(b ...byte) { ops = append(ops, conntest.IO{W: b}) }

	w(cmdSWRESET)
	w(cmdSLPOUT)
	w(cmdMADCTL)
	w(0x00)
	w(cmdCOLMOD)
	w(colmodRGB565)
	w(cmdDISPON)
	// clear: columns 52..186, rows 40..279
	w(cmdCASET)
	w(0x00, 0x34, 0x00, 0xBA)
	w(cmdRASET)
	w(0x00, 0x28, 0x01, 0x17)
	w(cmdRAMWR)
	for pix := solid(rgb565.Black, 135*240); len(pix) > 0; {
		n := min(len(pix), chunkBytes)
		w(pix[:n]...)
		pix = pix[n:]
	}
	w(cmdDISPOFF)

	port := &spitest.Playback{Playback: conntest.Playback{Ops: ops, DontPanic: true}}
	dc := &gpiotest.Pin{N: "DC"}

	d, err := NewSPI(port, dc, &Opts{Model: ST7789_135x240, Delay: noDelay})
	if err != nil {
		t.Fatalf("NewSPI() error = %v", err)
	}
	if err := d.Halt(); err != nil {
		t.Fatalf("Halt() error = %v", err)
	}
	if err := port.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewSPIPortClaim(t *testing.T) {
	bus := &phaseBus{dc: &gpiotest.Pin{N: "DC"}}

	d, err := NewSPI(bus, bus.dc, &Opts{Delay: noDelay})
	if err != nil {
		t.Fatalf("NewSPI() error = %v", err)
	}
	if got := d.Bounds(); got != image.Rect(0, 0, 240, 320) {
		t.Errorf("Bounds() = %v, want stock 240x320 when no model is set", got)
	}
	if bus.freq != DefaultFrequency {
		t.Errorf("frequency = %s, want %s", bus.freq, DefaultFrequency)
	}

	if _, err := NewSPI(bus, bus.dc, &Opts{Delay: noDelay}); !errors.Is(err, ErrPortInUse) {
		t.Fatalf("second NewSPI() error = %v, want ErrPortInUse", err)
	}
	if bus.connects != 1 {
		t.Errorf("connects = %d, want 1", bus.connects)
	}

	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	d2, err := NewSPI(bus, bus.dc, &Opts{Delay: noDelay, Frequency: 40 * physic.MegaHertz})
	if err != nil {
		t.Fatalf("NewSPI() after Halt error = %v", err)
	}
	defer d2.Halt()
	if bus.freq != 40*physic.MegaHertz {
		t.Errorf("frequency = %s, want 40MHz", bus.freq)
	}
}

func TestNewSPIConnectError(t *testing.T) {
	connErr := errors.New("no such bus")
	bus := &phaseBus{dc: &gpiotest.Pin{N: "DC"}, connectErr: connErr}

	_, err := NewSPI(bus, bus.dc, &Opts{Delay: noDelay})
	var ie *InitError
	if !errors.As(err, &ie) || ie.Step != "connect" {
		t.Fatalf("NewSPI() error = %v, want connect *InitError", err)
	}

	// The claim must not outlive the failed attempt
	bus.connectErr = nil
	d, err := NewSPI(bus, bus.dc, &Opts{Delay: noDelay})
	if err != nil {
		t.Fatalf("NewSPI() retry error = %v", err)
	}
	d.Halt()
}

func TestNewSPIInitFailureReleasesPort(t *testing.T) {
	bus := &phaseBus{dc: &gpiotest.Pin{N: "DC"}}

	_, err := NewSPI(bus, bus.dc, &Opts{RST: gpio.INVALID, Delay: noDelay})
	var ie *InitError
	if !errors.As(err, &ie) {
		t.Fatalf("NewSPI() error = %v, want *InitError", err)
	}
	d, err := NewSPI(bus, bus.dc, &Opts{Delay: noDelay})
	if err != nil {
		t.Fatalf("NewSPI() retry error = %v", err)
	}
	d.Halt()
}

func TestNewSPIRequiresDC(t *testing.T) {
	bus := &phaseBus{dc: &gpiotest.Pin{N: "DC"}}
	if _, err := NewSPI(bus, nil, nil); err == nil {
		t.Fatal("NewSPI() without dc pin should fail")
	}
	if bus.connects != 0 {
		t.Errorf("connects = %d, want 0", bus.connects)
	}
}

func TestDisplayer(t *testing.T) {
	d, rec := newTestDev(t, ST7789_135x240)
	disp := d.Displayer()

	if w, h := disp.Size(); w != 135 || h != 240 {
		t.Errorf("Size() = %d, %d, want 135, 240", w, h)
	}

	disp.SetPixel(1, 2, color.RGBA{R: 0xFF, A: 0xFF})
	disp.SetPixel(200, 2, color.RGBA{G: 0xFF, A: 0xFF})
	if err := disp.Display(); err != nil {
		t.Fatalf("Display() error = %v", err)
	}

	win := rec.windows()
	if len(win) != 1 {
		t.Fatalf("got %d windows, want 1", len(win))
	}
	if want := image.Rect(53, 42, 54, 43); win[0].rect != want {
		t.Errorf("window = %v, want %v", win[0].rect, want)
	}
	if !bytes.Equal(win[0].pix, []byte{0xF8, 0x00}) {
		t.Errorf("pixel = % X, want F8 00", win[0].pix)
	}

	d.Halt()
	disp.SetPixel(0, 0, color.RGBA{A: 0xFF})
	if err := disp.Display(); !errors.Is(err, ErrHalted) {
		t.Errorf("Display() after Halt = %v, want ErrHalted", err)
	}
	if err := disp.Display(); err != nil {
		t.Errorf("Display() error not reset: %v", err)
	}
}
