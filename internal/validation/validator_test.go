// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

package validation

import (
	"errors"
	"strings"
	"testing"
)

type coordInput struct {
	Lat float64 `validate:"latitude"`
	Lng float64 `validate:"longitude"`
}

type contentInput struct {
	Content string `validate:"required,min=1"`
	ID      string `validate:"omitempty,uuid"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantErr bool
	}{
		{"valid coordinates", coordInput{Lat: 51.5, Lng: -0.12}, false},
		{"boundary coordinates", coordInput{Lat: -90, Lng: 180}, false},
		{"latitude too big", coordInput{Lat: 90.1, Lng: 0}, true},
		{"longitude too small", coordInput{Lat: 0, Lng: -180.5}, true},
		{"valid content", contentInput{Content: "hello"}, false},
		{"empty content", contentInput{Content: ""}, true},
		{"valid uuid", contentInput{Content: "x", ID: "c56a4180-65aa-42ec-a945-5fd21dec0538"}, false},
		{"garbage uuid", contentInput{Content: "x", ID: "nope"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStructTranslatesMessages(t *testing.T) {
	err := ValidateStruct(coordInput{Lat: 123, Lng: 0})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error type = %T, want *RequestError", err)
	}
	if len(reqErr.Fields) != 1 {
		t.Fatalf("got %d field errors, want 1", len(reqErr.Fields))
	}
	if reqErr.Fields[0].Field != "lat" {
		t.Errorf("field = %q, want lat", reqErr.Fields[0].Field)
	}
	if !strings.Contains(err.Error(), "valid latitude") {
		t.Errorf("message %q not translated", err.Error())
	}
}

func TestValidatorIsSingleton(t *testing.T) {
	if Validator() != Validator() {
		t.Error("Validator() returned different instances")
	}
}
