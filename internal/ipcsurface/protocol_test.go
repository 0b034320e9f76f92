package ipcsurface

import (
	"encoding/json"
	"testing"
)

func TestParseRequest_WithPayload(t *testing.T) {
	raw := []byte(`{"command":"RESIZE","payload":{"direction":"up","step":2}}` + "\n")
	req, err := ParseRequest(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.Command != CommandResize {
		t.Fatalf("command = %q", req.Command)
	}
	var p ResizePayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.Direction != "up" || p.Step != 2 {
		t.Fatalf("payload = %+v", p)
	}
}

func TestParseRequest_Invalid(t *testing.T) {
	if _, err := ParseRequest([]byte("not json\n")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestResponseStatuses(t *testing.T) {
	ok, err := NewOKResponse(StatusData{PaneCount: 3})
	if err != nil {
		t.Fatalf("ok response: %v", err)
	}
	if ok.Status != "OK" || len(ok.Data) == 0 {
		t.Fatalf("ok = %+v", ok)
	}

	noop := NewNoOpResponse("no room")
	if noop.Status != "NOOP" || noop.Error != "no room" {
		t.Fatalf("noop = %+v", noop)
	}

	fail := NewErrorResponse("boom")
	data, err := fail.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Response
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Status != "ERROR" || back.Error != "boom" {
		t.Fatalf("round-tripped error = %+v", back)
	}
}
