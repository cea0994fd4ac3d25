package models

import (
	"encoding/json"
	"testing"
)

func TestActionStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from ActionStatus
		to   ActionStatus
		want bool
	}{
		{"proposed to executed", ActionProposed, ActionExecuted, true},
		{"proposed to rejected", ActionProposed, ActionRejected, true},
		{"proposed to failed", ActionProposed, ActionFailed, true},
		{"failed retry to executed", ActionFailed, ActionExecuted, true},
		{"failed retry to rejected", ActionFailed, ActionRejected, true},
		{"failed to failed again", ActionFailed, ActionFailed, true},
		{"executed is terminal", ActionExecuted, ActionRejected, false},
		{"executed cannot fail", ActionExecuted, ActionFailed, false},
		{"rejected is terminal", ActionRejected, ActionExecuted, false},
		{"no transition back to proposed", ActionFailed, ActionProposed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestActionStatusActionable(t *testing.T) {
	if !ActionProposed.Actionable() || !ActionFailed.Actionable() {
		t.Error("proposed and failed must remain actionable")
	}
	if ActionExecuted.Actionable() || ActionRejected.Actionable() {
		t.Error("terminal statuses must not be actionable")
	}
}

func TestParametersPreserveOrder(t *testing.T) {
	raw := `{"status":"in_use","zeta":1,"alpha":"crane","count":3}`

	var p Parameters
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	wantNames := []string{"status", "zeta", "alpha", "count"}
	if len(p) != len(wantNames) {
		t.Fatalf("got %d parameters, want %d", len(p), len(wantNames))
	}
	for i, name := range wantNames {
		if p[i].Name != name {
			t.Errorf("parameter[%d] = %q, want %q", i, p[i].Name, name)
		}
	}

	// Order survives a marshal round trip too.
	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != raw {
		t.Errorf("round trip = %s, want %s", out, raw)
	}
}

func TestParametersDisplayFiltersEmpty(t *testing.T) {
	var p Parameters
	raw := `{"name":"Tower crane","note":"","assignee":null,"floor":"  ","count":0}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	shown := p.Display()
	if len(shown) != 2 {
		t.Fatalf("got %d displayed parameters, want 2: %v", len(shown), shown)
	}
	if shown[0].Name != "name" || shown[1].Name != "count" {
		t.Errorf("unexpected display set: %v", shown)
	}
}

func TestParametersNull(t *testing.T) {
	var p Parameters
	if err := json.Unmarshal([]byte(`null`), &p); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if p != nil {
		t.Errorf("null parameters should decode to nil, got %v", p)
	}
}

func TestEntityTypeFallback(t *testing.T) {
	tests := []struct {
		tag       string
		wantKind  EntityKind
		wantLabel string
	}{
		{"equipment", KindEquipment, "Equipment"},
		{"rfi", KindRFI, "RFI"},
		{"material_submission", KindMaterialSubmission, "Material submission"},
		{"crane_permit", KindUnknown, "crane_permit"},
		{"", KindUnknown, "Item"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			et := ParseEntityType(tt.tag)
			if et.Kind() != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", et.Kind(), tt.wantKind)
			}
			if et.Label() != tt.wantLabel {
				t.Errorf("Label() = %q, want %q", et.Label(), tt.wantLabel)
			}
			if et.Icon() == "" {
				t.Error("Icon() must never be empty")
			}
		})
	}
}

func TestEntityTypeJSONRoundTrip(t *testing.T) {
	var a ChatAction
	raw := `{"id":"a1","entityType":"crane_permit","description":"Approve permit","status":"proposed"}`
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a.EntityType.Known() {
		t.Error("crane_permit should be unknown")
	}

	out, err := json.Marshal(a.EntityType)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"crane_permit"` {
		t.Errorf("unknown tag must survive round trip, got %s", out)
	}
}
