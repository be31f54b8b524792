package main

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

var runSeq atomic.Int64

func runCLI(t *testing.T, opts options) string {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", fmt.Sprintf("file:learning_tree_cli_%d?mode=memory&cache=shared", runSeq.Add(1)))
	var out bytes.Buffer
	if err := run(context.Background(), logger.Nop(), opts, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestRunPrintsTree(t *testing.T) {
	got := runCLI(t, options{seedPath: "testdata/catalog.yaml", target: "stats-201"})
	want := "Intro to Statistics [understand statistics]\nStatistics Workshop [understand statistics]\n"
	if got != want {
		t.Fatalf("tree output = %q, want %q", got, want)
	}
}

func TestRunPrintsProjection(t *testing.T) {
	got := runCLI(t, options{seedPath: "testdata/catalog.yaml", target: "Statistics Workshop", groupedBy: "prerequisites"})
	want := "apply algebra\n    (no matching resources)\n"
	if got != want {
		t.Fatalf("projection output = %q, want %q", got, want)
	}
}

func TestRunNoPrerequisites(t *testing.T) {
	got := runCLI(t, options{seedPath: "testdata/catalog.yaml", target: "stats-101"})
	if got != "No prerequisites found for Intro to Statistics\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
