package validation

import (
	"testing"

	apperrors "github.com/kbukum/recorder/errors"
)

type createBody struct {
	Title string `json:"title" validate:"required,notblank,max=10"`
	Kind  string `json:"kind,omitempty" validate:"omitempty,oneof=call meeting"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		body    createBody
		wantErr string
	}{
		{"valid", createBody{Title: "standup"}, ""},
		{"missing title", createBody{}, "title is required"},
		{"blank title", createBody{Title: "   "}, "title is required"},
		{"too long", createBody{Title: "a very long title"}, "title must be at most 10 characters"},
		{"bad kind", createBody{Title: "ok", Kind: "lecture"}, "kind must be one of: call meeting"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.body)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			appErr, ok := apperrors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.Code != apperrors.ErrCodeInvalidInput {
				t.Errorf("code = %s", appErr.Code)
			}
			if appErr.Message != tc.wantErr {
				t.Errorf("message = %q, want %q", appErr.Message, tc.wantErr)
			}
			fields, _ := appErr.Details["fields"].([]FieldError)
			if len(fields) != 1 {
				t.Errorf("fields = %+v", appErr.Details["fields"])
			}
		})
	}
}

func TestStructRejectsNonStruct(t *testing.T) {
	if err := Struct("title"); err == nil {
		t.Fatal("expected error for non-struct input")
	}
}
