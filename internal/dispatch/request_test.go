package dispatch

import "testing"

func TestDecodeRequest_ExactSize(t *testing.T) {
	buf := []byte{0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00}
	req, ok := decodeRequest(buf)
	if !ok {
		t.Fatal("expected ok=true for exactly requestSize bytes")
	}
	if req.StartCode != 1 || req.EndCode != 2 {
		t.Fatalf("got %+v, want StartCode=1 EndCode=2", req)
	}
}

func TestDecodeRequest_NegativeCodes(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x05, 0x00, 0x00, 0x00}
	req, ok := decodeRequest(buf)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if req.StartCode != -1 || req.EndCode != 5 {
		t.Fatalf("got %+v, want StartCode=-1 EndCode=5", req)
	}
}

func TestDecodeRequest_PartialReadIgnored(t *testing.T) {
	for _, n := range []int{0, 1, 4, 7, 9, 16} {
		buf := make([]byte, n)
		if _, ok := decodeRequest(buf); ok {
			t.Fatalf("expected ok=false for %d bytes", n)
		}
	}
}
