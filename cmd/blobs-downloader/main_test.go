package main

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNewSink_Selection(t *testing.T) {
	ctx := context.Background()

	t.Run("jsonl", func(t *testing.T) {
		dir := t.TempDir()
		sink, err := newSink(ctx, "jsonl", dir, "")
		if err != nil {
			t.Fatalf("newSink failed: %v", err)
		}
		defer sink.Close()
	})

	t.Run("jsonl creates data dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "dir")
		sink, err := newSink(ctx, "jsonl", dir, "")
		if err != nil {
			t.Fatalf("newSink failed: %v", err)
		}
		defer sink.Close()
	})

	t.Run("leveldb", func(t *testing.T) {
		sink, err := newSink(ctx, "leveldb", t.TempDir(), "")
		if err != nil {
			t.Fatalf("newSink failed: %v", err)
		}
		defer sink.Close()
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := newSink(ctx, "postgres", t.TempDir(), ""); err == nil {
			t.Error("Expected error for unknown sink kind")
		}
	})
}

func TestNewCommand_Flags(t *testing.T) {
	cmd := newCommand()

	for _, name := range []string{
		optionNameAPIURL,
		optionNameFromSlot,
		optionNameToSlot,
		optionNameConcurrency,
		optionNameDataDir,
		optionNameSink,
		optionNameRedisAddr,
		optionNameVerbosity,
		optionNamePretty,
		optionNameMetricsAddr,
	} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Missing flag --%s", name)
		}
	}

	if got := cmd.Flags().Lookup(optionNameSink).DefValue; got != "leveldb" {
		t.Errorf("Default sink = %q, want leveldb", got)
	}
	if got := cmd.Flags().Lookup(optionNameConcurrency).DefValue; got != "20" {
		t.Errorf("Default concurrency = %q, want 20", got)
	}
}
