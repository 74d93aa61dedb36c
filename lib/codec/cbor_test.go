// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type sampleRequest struct {
	Action      string `cbor:"action"`
	Compression string `cbor:"compression,omitempty"`
	Width       int    `cbor:"width"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRequest{Action: "capture", Compression: "zstd", Width: 480}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleRequest
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	first, err := Marshal(map[string]int{"width": 480, "height": 800, "bpp": 16})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Marshal(map[string]int{"bpp": 16, "height": 800, "width": 480})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("map encoding is not deterministic:\n%x\n%x", first, again)
		}
	}
}

func TestStreamEncoderDecoder(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, action := range []string{"status", "capture", "disconnect"} {
		if err := encoder.Encode(sampleRequest{Action: action}); err != nil {
			t.Fatalf("Encode(%s): %v", action, err)
		}
	}

	decoder := NewDecoder(&buffer)
	for _, want := range []string{"status", "capture", "disconnect"} {
		var got sampleRequest
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got.Action != want {
			t.Errorf("Action = %q, want %q", got.Action, want)
		}
	}
}

func TestDecodeIntoAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(sampleRequest{Action: "status"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var generic any
	if err := Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	fields, ok := generic.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", generic)
	}
	if fields["action"] != "status" {
		t.Errorf("action = %v, want status", fields["action"])
	}
}

func TestTimeRoundtrip(t *testing.T) {
	type stamped struct {
		At time.Time `cbor:"at"`
	}
	original := stamped{At: time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)}
	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded stamped
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !decoded.At.Equal(original.At) {
		t.Errorf("At = %v, want %v", decoded.At, original.At)
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(sampleRequest{Action: "status"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	text, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(text, `"status"`) {
		t.Errorf("Diagnose output %q does not mention the action", text)
	}
}
