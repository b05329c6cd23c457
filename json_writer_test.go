package savingsplan

import "testing"

func TestJSONObjectWriter_FieldOrder(t *testing.T) {
	var w jsonObjectWriter
	w.Append("command", "deposit")
	w.Append("amount", 100)
	got, err := w.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"command":"deposit","amount":100}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

func TestJSONObjectWriter_Optional(t *testing.T) {
	var w jsonObjectWriter
	w.Optional("memo", "")
	w.Optional("count", 0)
	w.Optional("flag", false)
	w.Optional("name", "kept")
	got, err := w.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"name":"kept"}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

func TestJSONObjectWriter_EmbedFrom(t *testing.T) {
	var w jsonObjectWriter
	w.Append("command", "buy")
	w.EmbedFrom(M(100, "EUR"))
	got, err := w.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"command":"buy","currency":"EUR","amount":100}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

func TestJSONObjectWriter_Empty(t *testing.T) {
	var w jsonObjectWriter
	got, err := w.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(got) != "{}" {
		t.Errorf("MarshalJSON() = %s, want {}", got)
	}
}
