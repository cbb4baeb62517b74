package command

import (
	"context"
	"reflect"
	"testing"
)

func TestRunFunc(t *testing.T) {
	var gotName string
	var gotArgs []string
	r := RunFunc(func(ctx context.Context, name string, args ...string) (string, error) {
		gotName, gotArgs = name, args
		return "ok", nil
	})

	out, err := r.Run(context.Background(), "secedit.exe", "/export", "/cfg", "x.inf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" {
		t.Errorf("output = %q, want %q", out, "ok")
	}
	if gotName != "secedit.exe" {
		t.Errorf("name = %q", gotName)
	}
	if want := []string{"/export", "/cfg", "x.inf"}; !reflect.DeepEqual(gotArgs, want) {
		t.Errorf("args = %v, want %v", gotArgs, want)
	}
}

func TestLocalMissingProgram(t *testing.T) {
	_, err := Local{}.Run(context.Background(), "mirrormount-no-such-program")
	if err == nil {
		t.Fatal("expected an error for a missing program")
	}
}
