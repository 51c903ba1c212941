package wire

import "testing"

func TestPutHeader_QueryFlags(t *testing.T) {
	buf := make([]byte, HeaderSize)
	h := Header{ID: 0x1234, RD: true, QDCount: 1}
	if err := PutHeader(h, buf); err != nil {
		t.Fatalf("PutHeader error: %v", err)
	}

	want := []byte{0x12, 0x34, 0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = 0x%02x, want 0x%02x (full: % x)", i, buf[i], want[i], buf)
		}
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		ID:      0xBEEF,
		QR:      true,
		Opcode:  0,
		AA:      true,
		TC:      false,
		RD:      true,
		RA:      true,
		Z:       0,
		AD:      true,
		CD:      false,
		Rcode:   3,
		QDCount: 1,
		ANCount: 2,
		NSCount: 3,
		ARCount: 4,
	}

	buf := make([]byte, HeaderSize)
	if err := PutHeader(h, buf); err != nil {
		t.Fatalf("PutHeader error: %v", err)
	}

	got, err := ParseHeader(buf)
	if err != nil {
		t.Fatalf("ParseHeader error: %v", err)
	}

	if got != h {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestPutHeader_BufferTooSmall(t *testing.T) {
	buf := make([]byte, HeaderSize-1)
	if err := PutHeader(Header{}, buf); err == nil {
		t.Fatal("expected error for undersized buffer")
	}
}

func TestParseHeader_TooShort(t *testing.T) {
	if _, err := ParseHeader(make([]byte, 4)); err == nil {
		t.Fatal("expected error for short packet")
	}
}
