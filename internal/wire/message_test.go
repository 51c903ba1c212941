package wire

import "testing"

func TestBuildQuery(t *testing.T) {
	nameBuf := make([]byte, 256)
	n, err := EncodeName("example.com", nameBuf)
	if err != nil {
		t.Fatalf("EncodeName error: %v", err)
	}

	out := make([]byte, 512)
	total, err := BuildQuery(0xABCD, nameBuf[:n], out)
	if err != nil {
		t.Fatalf("BuildQuery error: %v", err)
	}

	h, err := ParseHeader(out[:total])
	if err != nil {
		t.Fatalf("ParseHeader error: %v", err)
	}
	if h.ID != 0xABCD {
		t.Errorf("ID = %x, want 0xABCD", h.ID)
	}
	if !h.RD {
		t.Error("RD should be set")
	}
	if h.QDCount != 1 {
		t.Errorf("QDCount = %d, want 1", h.QDCount)
	}
	if h.ANCount != 0 || h.NSCount != 0 || h.ARCount != 0 {
		t.Errorf("non-question counts should be 0, got AN=%d NS=%d AR=%d", h.ANCount, h.NSCount, h.ARCount)
	}

	end := QuestionEnd(n)
	if end != total {
		t.Errorf("QuestionEnd(%d) = %d, want %d", n, end, total)
	}

	qtype := uint16(out[end-4])<<8 | uint16(out[end-3])
	qclass := uint16(out[end-2])<<8 | uint16(out[end-1])
	if qtype != TypeA {
		t.Errorf("QTYPE = %d, want %d", qtype, TypeA)
	}
	if qclass != ClassIN {
		t.Errorf("QCLASS = %d, want %d", qclass, ClassIN)
	}
}

func TestBuildQuery_BufferTooSmall(t *testing.T) {
	nameBuf := make([]byte, 256)
	n, err := EncodeName("example.com", nameBuf)
	if err != nil {
		t.Fatalf("EncodeName error: %v", err)
	}

	tiny := make([]byte, 10)
	if _, err := BuildQuery(1, nameBuf[:n], tiny); err == nil {
		t.Fatal("expected error for undersized output buffer")
	}
}
