package models

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestAlarmInputValidateCreate(t *testing.T) {
	cases := []struct {
		name      string
		input     AlarmInput
		wantField string
	}{
		{name: "minimal", input: AlarmInput{Time: strPtr("07:00")}},
		{name: "full", input: AlarmInput{Time: strPtr("23:59"), Label: strPtr("Gym"), Days: &[]string{"Mon", "Wed"}}},
		{name: "empty days", input: AlarmInput{Time: strPtr("00:00"), Days: &[]string{}}},
		{name: "missing time", input: AlarmInput{Label: strPtr("x")}, wantField: "time"},
		{name: "empty time", input: AlarmInput{Time: strPtr("")}, wantField: "time"},
		{name: "bad hour", input: AlarmInput{Time: strPtr("24:00")}, wantField: "time"},
		{name: "no padding", input: AlarmInput{Time: strPtr("7:00")}, wantField: "time"},
		{name: "bad day", input: AlarmInput{Time: strPtr("07:00"), Days: &[]string{"Monday"}}, wantField: "days"},
		{name: "duplicate day", input: AlarmInput{Time: strPtr("07:00"), Days: &[]string{"Mon", "Mon"}}, wantField: "days"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.ValidateCreate()
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid input, got %v", err)
				}
				return
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
			}
			if _, ok := ve.Fields[tc.wantField]; !ok {
				t.Fatalf("expected field %q in %v (message %q)", tc.wantField, ve.Fields, ve.Message)
			}
		})
	}
}

func TestAlarmInputValidateUpdateAllowsEmptyPatch(t *testing.T) {
	in := AlarmInput{}
	if err := in.ValidateUpdate(); err != nil {
		t.Fatalf("empty patch should be valid, got %v", err)
	}
	bad := AlarmInput{Time: strPtr("noon")}
	if err := bad.ValidateUpdate(); !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSettingsInputValidate(t *testing.T) {
	ok := SettingsInput{Theme: strPtr(ThemeSunset), Language: strPtr(LanguageArabic)}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid settings input, got %v", err)
	}

	bad := SettingsInput{Theme: strPtr("neon")}
	err := bad.Validate()
	ve, isVE := err.(*ValidationError)
	if !isVE {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Fields["theme"] != "oneof" {
		t.Fatalf("expected oneof failure on theme, got %v", ve.Fields)
	}

	if err := (&SettingsInput{Language: strPtr("fr")}).Validate(); err == nil {
		t.Fatal("expected unsupported language to fail")
	}
}

func TestProVerifyInputRequiresHash(t *testing.T) {
	if err := (&ProVerifyInput{}).Validate(); !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := (&ProVerifyInput{TransactionHash: "0xabc"}).Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestNormalizeDays(t *testing.T) {
	got := NormalizeDays([]string{"Sun", "Mon", "Wed"})
	want := []string{"Mon", "Wed", "Sun"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeDays = %v, want %v", got, want)
	}
	if got := NormalizeDays(nil); len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}
