package wire

import "testing"

// buildAnswerPacket builds a minimal response packet: the question section
// for qname, followed by one A record (owner name compressed back to the
// question) with the given RDATA.
func buildAnswerPacket(t *testing.T, qname string, rrType uint16, rdata []byte) []byte {
	t.Helper()

	nameBuf := make([]byte, 256)
	n, err := EncodeName(qname, nameBuf)
	if err != nil {
		t.Fatalf("EncodeName error: %v", err)
	}

	packet := make([]byte, HeaderSize)
	h := Header{ID: 1, QR: true, RD: true, RA: true, QDCount: 1, ANCount: 1}
	if err := PutHeader(h, packet); err != nil {
		t.Fatalf("PutHeader error: %v", err)
	}
	packet = append(packet, nameBuf[:n]...)
	packet = append(packet, 0x00, 0x01, 0x00, 0x01) // QTYPE A, QCLASS IN

	// Answer: pointer back to question name at offset 12.
	packet = append(packet, 0xC0, 0x0C)
	typeClass := []byte{byte(rrType >> 8), byte(rrType), 0x00, 0x01}
	packet = append(packet, typeClass...)
	packet = append(packet, 0x00, 0x00, 0x00, 0x3C) // TTL 60
	packet = append(packet, byte(len(rdata)>>8), byte(len(rdata)))
	packet = append(packet, rdata...)

	return packet
}

func TestWalk_ARecord(t *testing.T) {
	packet := buildAnswerPacket(t, "example.com", TypeA, []byte{93, 184, 216, 34})

	nameBuf := make([]byte, 256)
	n, _ := EncodeName("example.com", nameBuf)
	answerStart := QuestionEnd(n)

	rr, next, err := Walk(packet, answerStart, len(packet))
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	if rr.Type != TypeA {
		t.Errorf("Type = %d, want %d", rr.Type, TypeA)
	}
	if rr.RDLength != 4 {
		t.Errorf("RDLength = %d, want 4", rr.RDLength)
	}
	got := packet[rr.RDataOffset : rr.RDataOffset+int(rr.RDLength)]
	want := []byte{93, 184, 216, 34}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("RDATA = % x, want % x", got, want)
		}
	}
	if next != len(packet) {
		t.Errorf("next = %d, want %d (end of packet)", next, len(packet))
	}
}

func TestWalk_TruncatedRDLength(t *testing.T) {
	// ANCOUNT claims a record with RDLENGTH=3 for an A record but the
	// packet is cut short before that many RDATA bytes are present.
	packet := buildAnswerPacket(t, "example.com", TypeA, []byte{1, 2, 3})
	// Truncate the packet so the declared RDLENGTH runs past the end.
	packet = packet[:len(packet)-2]

	nameBuf := make([]byte, 256)
	n, _ := EncodeName("example.com", nameBuf)
	answerStart := QuestionEnd(n)

	if _, _, err := Walk(packet, answerStart, len(packet)); err == nil {
		t.Fatal("expected error for RDATA running past packet bound")
	}
}

func TestSkipSection(t *testing.T) {
	packet := buildAnswerPacket(t, "example.com", TypeA, []byte{1, 2, 3, 4})
	nameBuf := make([]byte, 256)
	n, _ := EncodeName("example.com", nameBuf)
	answerStart := QuestionEnd(n)

	end, err := SkipSection(packet, answerStart, len(packet), 1)
	if err != nil {
		t.Fatalf("SkipSection error: %v", err)
	}
	if end != len(packet) {
		t.Errorf("end = %d, want %d", end, len(packet))
	}
}

func TestSkipSection_BoundsCheckedCount(t *testing.T) {
	packet := buildAnswerPacket(t, "example.com", TypeA, []byte{1, 2, 3, 4})
	nameBuf := make([]byte, 256)
	n, _ := EncodeName("example.com", nameBuf)
	answerStart := QuestionEnd(n)

	// Claiming 2 records when only 1 is present must fail, not read past
	// the packet or hang.
	if _, err := SkipSection(packet, answerStart, len(packet), 2); err == nil {
		t.Fatal("expected error walking past the last real record")
	}
}
