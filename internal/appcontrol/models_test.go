package appcontrol

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestExitOptions_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ExitOptions
	}{
		{"empty object", `{}`, ExitOptions{RemoveFromRecents: true, KillProcess: false}},
		{"only kill", `{"killProcess":true}`, ExitOptions{RemoveFromRecents: true, KillProcess: true}},
		{"explicit false", `{"removeFromRecents":false}`, ExitOptions{RemoveFromRecents: false, KillProcess: false}},
		{"both set", `{"removeFromRecents":false,"killProcess":true}`, ExitOptions{RemoveFromRecents: false, KillProcess: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ExitOptions
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExitOptions_NullPointerMeansDefaults(t *testing.T) {
	var args struct {
		Options *ExitOptions `json:"options"`
	}
	if err := json.Unmarshal([]byte(`{"options":null}`), &args); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if args.Options != nil {
		t.Fatalf("Expected nil options, got %+v", args.Options)
	}
	if got := args.Options.Resolve(); got != DefaultExitOptions() {
		t.Errorf("Resolve() = %+v, want defaults", got)
	}
}

func TestExitOptions_InvalidJSON(t *testing.T) {
	var o ExitOptions
	if err := json.Unmarshal([]byte(`{"killProcess":"yes"}`), &o); err == nil {
		t.Error("Expected an error for a non-boolean field")
	}
}

func TestModels_RoundTrip(t *testing.T) {
	destroyed := false
	pkg := "dev.appcontrol.demo"

	values := []interface{}{
		&ExitOptions{RemoveFromRecents: false, KillProcess: true},
		&MinimizeResult{Success: true, Message: "Minimized 1/2 windows"},
		&CloseResult{Success: false, Message: "Closed 0/0 windows"},
		&ExitResult{Success: true, Message: "Application exiting"},
		&AppState{InForeground: true, IsFinishing: false},
		&AppState{InForeground: false, IsFinishing: true, IsDestroyed: &destroyed, PackageName: &pkg},
	}

	for _, original := range values {
		data, err := json.Marshal(original)
		if err != nil {
			t.Fatalf("Marshal(%T) error = %v", original, err)
		}

		decoded := reflect.New(reflect.TypeOf(original).Elem()).Interface()
		if err := json.Unmarshal(data, decoded); err != nil {
			t.Fatalf("Unmarshal(%T) error = %v", original, err)
		}
		if !reflect.DeepEqual(original, decoded) {
			t.Errorf("Round trip of %T changed value: %+v -> %+v", original, original, decoded)
		}
	}
}

func TestAppState_OptionalFieldsOmitted(t *testing.T) {
	data, err := json.Marshal(AppState{InForeground: true})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	s := string(data)
	if s != `{"inForeground":true,"isFinishing":false}` {
		t.Errorf("Unexpected encoding %s", s)
	}
	if strings.Contains(s, "null") {
		t.Errorf("Optional fields must be omitted, not null: %s", s)
	}
}

func TestModels_CamelCase(t *testing.T) {
	data, _ := json.Marshal(DefaultExitOptions())
	if string(data) != `{"removeFromRecents":true,"killProcess":false}` {
		t.Errorf("Unexpected encoding %s", data)
	}
}
