package docs_test

import (
	"bufio"
	"flag"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/networth/cmd"
	"github.com/etnz/networth/docs"
	"github.com/google/subcommands"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TestTopics checks that docs/readme.md lists exactly the available topics.
func TestTopics(t *testing.T) {
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			listed = append(listed, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range listed {
		if _, err := docs.GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}

	all, err := docs.GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in docs/readme.md", topic)
		}
	}

	content, err := docs.GetTopics("*")
	if err != nil {
		t.Fatalf("GetTopics(*) error = %v", err)
	}
	for _, topic := range all {
		one, _ := docs.GetTopic(topic)
		if !strings.Contains(content, one) {
			t.Errorf("GetTopics(*) is missing topic %q", topic)
		}
	}
}

// TestConsoleBlocks checks that every command shown in the manual exists and
// that its flags are valid.
func TestConsoleBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			for _, line := range consoleLines(t, file) {
				args := strings.Fields(strings.TrimPrefix(line, "$ nw "))
				i := slices.IndexFunc(cmd.Commands, func(c subcommands.Command) bool { return c.Name() == args[0] })
				if i < 0 {
					t.Errorf("%q: unknown command %q", line, args[0])
					continue
				}
				c := cmd.Commands[i]
				fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
				fs.SetOutput(io.Discard)
				c.SetFlags(fs)
				if err := fs.Parse(args[1:]); err != nil {
					t.Errorf("%q: %v", line, err)
				}
			}
		})
	}
}

// consoleLines returns the "$ nw" lines of every console block in 'file'.
func consoleLines(t *testing.T, file string) []string {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var lines []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || string(fcb.Language(content)) != "console" {
			return ast.WalkContinue, nil
		}
		for i := 0; i < fcb.Lines().Len(); i++ {
			seg := fcb.Lines().At(i)
			if line := strings.TrimSpace(string(seg.Value(content))); strings.HasPrefix(line, "$ nw ") {
				lines = append(lines, line)
			}
		}
		return ast.WalkContinue, nil
	})
	return lines
}
