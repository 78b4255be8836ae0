package schema

import (
	"testing"
)

func TestStringifyString(t *testing.T) {
	s := String("hello world")
	if got := Stringify(s); got != "hello world" {
		t.Errorf("expecting raw text, got %q", got)
	}
}

func TestStringifyStruct(t *testing.T) {
	in := NewInput("what is the weather in Paris?")
	got := Stringify(in)
	want := `{"chat_message":"what is the weather in Paris?"}`
	if got != want {
		t.Errorf("expecting %s, got %s", want, got)
	}
}

func TestBaseAttachment(t *testing.T) {
	out := NewOutput("ok")
	if out.Attachment() != nil {
		t.Error("expecting nil attachment on fresh schema")
	}
	att := &Attachment{ImageURLs: []string{"https://example.com/a.png"}}
	out.SetAttachment(att)
	if got := out.Attachment(); got == nil || len(got.ImageURLs) != 1 {
		t.Error("attachment not kept")
	}
}
