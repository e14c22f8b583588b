package medications

import "testing"

func TestParseForm(t *testing.T) {
	for _, s := range []string{"TABLET", "CAPSULE", "SYRUP", "INJECTION", "CREAM", "DROPS", "PATCH", "OTHER"} {
		if _, err := ParseForm(s); err != nil {
			t.Fatalf("ParseForm(%q) error: %v", s, err)
		}
	}
	// Estricto: ni minúsculas ni valores desconocidos.
	for _, s := range []string{"tablet", "PILL", ""} {
		if _, err := ParseForm(s); err == nil {
			t.Fatalf("ParseForm(%q): expected error", s)
		}
	}
}

func TestParseMealTiming(t *testing.T) {
	for _, s := range []string{"BEFORE_MEAL", "AFTER_MEAL", "WITH_MEAL", "ON_EMPTY_STOMACH", "ANYTIME"} {
		if _, err := ParseMealTiming(s); err != nil {
			t.Fatalf("ParseMealTiming(%q) error: %v", s, err)
		}
	}
	if _, err := ParseMealTiming("WHENEVER"); err == nil {
		t.Fatalf("expected error for unknown meal timing")
	}
}

func TestParseReminderType(t *testing.T) {
	for _, s := range []string{"DEFAULT", "SILENT", "LOUD"} {
		if _, err := ParseReminderType(s); err != nil {
			t.Fatalf("ParseReminderType(%q) error: %v", s, err)
		}
	}
	if _, err := ParseReminderType("VIBRATE"); err == nil {
		t.Fatalf("expected error for unknown reminder type")
	}
}

func TestParseCategory(t *testing.T) {
	for _, s := range []string{
		"DIABETES", "HEART", "BLOOD_PRESSURE", "PAIN_RELIEF", "VITAMINS",
		"ANTIBIOTICS", "MENTAL_HEALTH", "RESPIRATORY", "DIGESTIVE", "GENERAL",
	} {
		if _, err := ParseCategory(s); err != nil {
			t.Fatalf("ParseCategory(%q) error: %v", s, err)
		}
	}
	if _, err := ParseCategory("MAGIC"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}
