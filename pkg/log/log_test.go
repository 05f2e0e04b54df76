package log

import (
	"bytes"
	"testing"
)

func TestLogger(t *testing.T) {
	t.Run("levels", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWriter(&buf, false)
		l.Infof("loaded %d bytes", 4)
		l.Errorf("bad opcode %02X", 0xFC)
		l.Debugf("hidden")

		want := "[INFO]\tloaded 4 bytes\n[ERROR]\tbad opcode FC\n"
		if buf.String() != want {
			t.Errorf("Expected %q, got %q", want, buf.String())
		}
	})
	t.Run("verbose", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWriter(&buf, true)
		l.Debugf("pc=%04X", 0x0150)

		if buf.String() != "[DEBUG]\tpc=0150\n" {
			t.Errorf("Expected debug line, got %q", buf.String())
		}
	})
	t.Run("null", func(t *testing.T) {
		l := NewNullLogger()
		l.Infof("nothing")
		l.Errorf("nothing")
		l.Debugf("nothing")
	})
}
