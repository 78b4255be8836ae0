package components

import (
	"testing"

	"github.com/manishdighore/maf-agents/schema"
)

func TestMemoryOverflow(t *testing.T) {
	mem := NewMemory(3)
	mem.NewTurn()
	for _, txt := range []string{"a", "b", "c", "d"} {
		mem.NewMessage(UserRole, schema.String(txt))
	}
	if n := mem.MessageCount(); n != 3 {
		t.Fatalf("expecting 3 messages after overflow, got %d", n)
	}
	if got := schema.Stringify(mem.History()[0].Content()); got != "b" {
		t.Errorf("expecting oldest message dropped first, head is %q", got)
	}
}

func TestMemoryTokenBudget(t *testing.T) {
	mem := NewMemory(0)
	mem.SetTokenBudget(new(DefaultTokenCounter), 4)
	mem.NewTurn()
	mem.NewMessage(UserRole, schema.String("one two three"))
	mem.NewMessage(AssistantRole, schema.String("four five six"))
	if n := mem.MessageCount(); n != 1 {
		t.Fatalf("expecting budget to drop the oldest message, got %d messages", n)
	}
}

func TestMemoryDeleteTurn(t *testing.T) {
	mem := NewMemory(0)
	mem.NewTurn()
	first := mem.TurnID()
	mem.NewMessage(UserRole, schema.String("hi"))
	mem.NewTurn()
	mem.NewMessage(UserRole, schema.String("again"))
	if err := mem.DeleteTurn(first); err != nil {
		t.Fatal(err)
	}
	if n := mem.MessageCount(); n != 1 {
		t.Errorf("expecting 1 message after turn delete, got %d", n)
	}
	if err := mem.DeleteTurn("missing"); err == nil {
		t.Error("expecting error for unknown turn ID")
	}
}

func TestMemoryCopyIsIndependent(t *testing.T) {
	src := NewMemory(5)
	src.NewTurn()
	src.NewMessage(UserRole, schema.String("seed"))
	dst := NewMemory(0)
	dst.Copy(src)
	src.NewMessage(UserRole, schema.String("later"))
	if n := dst.MessageCount(); n != 1 {
		t.Errorf("copy should not track source, got %d messages", n)
	}
}

func TestMemoryCountRole(t *testing.T) {
	mem := NewMemory(0)
	mem.NewTurn()
	mem.NewMessage(UserRole, schema.String("hi"))
	mem.NewMessage(AssistantRole, schema.String("hello"))
	mem.NewMessage(UserRole, schema.String("more"))
	if n := mem.CountRole(UserRole); n != 2 {
		t.Errorf("expecting 2 user messages, got %d", n)
	}
	if n := mem.CountRole(ToolRole); n != 0 {
		t.Errorf("expecting no tool messages, got %d", n)
	}
}
