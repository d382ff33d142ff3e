package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func currentHTML(g *Generator) string {
	html, _ := g.Generate(Data{})
	return html
}

func TestWatchTemplateDirLoadsExistingOverride(t *testing.T) {
	dir := t.TempDir()
	overridePath := filepath.Join(dir, OverrideFileName)
	if err := os.WriteFile(overridePath, []byte("версия-1 {{номер_договора}}"), 0644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	g := NewGeneratorWithClock(testClock)
	stop, err := WatchTemplateDir(dir, g)
	if err != nil {
		t.Fatalf("WatchTemplateDir: %v", err)
	}
	defer stop()

	if !strings.HasPrefix(currentHTML(g), "версия-1") {
		t.Fatal("existing override not loaded at watch start")
	}
}

func TestWatchTemplateDirHotReloads(t *testing.T) {
	dir := t.TempDir()
	g := NewGeneratorWithClock(testClock)

	stop, err := WatchTemplateDir(dir, g)
	if err != nil {
		t.Fatalf("WatchTemplateDir: %v", err)
	}
	defer stop()

	// No override yet: the embedded template stays active.
	if strings.HasPrefix(currentHTML(g), "версия-2") {
		t.Fatal("generator picked up a template that does not exist")
	}

	overridePath := filepath.Join(dir, OverrideFileName)
	if err := os.WriteFile(overridePath, []byte("версия-2 {{номер_договора}}"), 0644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if strings.HasPrefix(currentHTML(g), "версия-2") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("override write not picked up by the watcher")
}

func TestWatchTemplateDirIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	g := NewGeneratorWithClock(testClock)
	g.SetTemplate("закреплено")

	stop, err := WatchTemplateDir(dir, g)
	if err != nil {
		t.Fatalf("WatchTemplateDir: %v", err)
	}
	defer stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("мусор"), 0644); err != nil {
		t.Fatalf("write unrelated file: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if currentHTML(g) != "закреплено" {
		t.Fatal("unrelated file write changed the template")
	}
}
