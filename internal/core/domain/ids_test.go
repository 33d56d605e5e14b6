package domain

import (
	"encoding/json"
	"testing"
)

func TestID_UnmarshalAcceptsNumbersAndStrings(t *testing.T) {
	var rec struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
		D ID `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"a":7,"b":"12","c":null,"d":""}`), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.A != 7 || rec.B != 12 || rec.C != 0 || rec.D != 0 {
		t.Fatalf("unexpected ids: %+v", rec)
	}
}

func TestID_UnmarshalRejectsGarbage(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`"abc"`), &id); err == nil {
		t.Fatalf("expected error for non-numeric string")
	}
	if err := json.Unmarshal([]byte(`true`), &id); err == nil {
		t.Fatalf("expected error for bool")
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 42 ")
	if err != nil || id != 42 {
		t.Fatalf("ParseID = %v, %v", id, err)
	}
	if _, err := ParseID("x1"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestEmptyPreferences_EncodesEmptyArrays(t *testing.T) {
	b, err := json.Marshal(EmptyPreferences(999))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":999,"userId":999,"cityPreferences":[],"weatherPreferences":[],"temperaturePreferences":[]}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestUserPreferences_ListsNormalizesNil(t *testing.T) {
	p := &UserPreferences{ID: 1, CityPreferences: []string{"Paris"}}
	lists := p.Lists()
	if lists.WeatherPreferences == nil || lists.TemperaturePreferences == nil {
		t.Fatalf("expected non-nil lists: %+v", lists)
	}
	if len(lists.CityPreferences) != 1 || lists.CityPreferences[0] != "Paris" {
		t.Fatalf("unexpected city list: %v", lists.CityPreferences)
	}
}
