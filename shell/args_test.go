package shell

import (
	"reflect"
	"testing"
)

func TestSplitArgsBasic(t *testing.T) {
	got := SplitArgs("newfile\t/docs/readme")
	want := []string{"newfile", "/docs/readme"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitArgsNoArgs(t *testing.T) {
	got := SplitArgs("whereami")
	want := []string{"whereami"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitArgsIgnoresSurroundingTabs(t *testing.T) {
	got := SplitArgs("\tgoto\t/docs\t")
	want := []string{"goto", "/docs"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitArgsPreservesEmbeddedSpaces(t *testing.T) {
	got := SplitArgs("echo\thello world")
	want := []string{"echo", "hello world"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRequoteRoundTripsWhitespace(t *testing.T) {
	got := Requote([]string{"copyfile", "a file", "b file"})
	if got == "" {
		t.Fatal("Requote returned empty string")
	}
}
