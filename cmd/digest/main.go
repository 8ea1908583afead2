// Package main prints a summary and tags for a piece of text.
// Usage: digest [-file path] [-remote] [-output text|json]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"smartnotes/internal/app"
	"smartnotes/internal/digest"
	"smartnotes/internal/domain/entity"
	"smartnotes/internal/observability/logging"
	aiUC "smartnotes/internal/usecase/ai"
	"smartnotes/internal/utils/text"
)

// Output is the JSON form of a digest.
type Output struct {
	Summary       string   `json:"summary"`
	SummarySource string   `json:"summary_source"`
	Tags          []string `json:"tags"`
}

const usage = `Usage: digest [-file path] [-remote] [-output text|json]

Reads text from -file, or stdin when omitted, and prints its summary and tags.

Examples:
  digest -file note.md
  echo "<p>React hooks...</p>" | digest -output json
  digest -remote -file draft.html`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("digest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprintln(stderr, usage) }

	var (
		file   string
		remote bool
		format string
	)
	fs.StringVar(&file, "file", "", "Read text from this file instead of stdin")
	fs.BoolVar(&remote, "remote", false, "Use the configured AI providers, falling back to the local engine")
	fs.StringVar(&format, "output", "text", "Output format: text or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if format != "text" && format != "json" {
		fmt.Fprintf(stderr, "Error: invalid output format %q (must be 'text' or 'json')\n\n", format)
		fs.Usage()
		return 2
	}

	input, err := readInput(file, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if strings.TrimSpace(text.StripHTML(input)) == "" {
		fmt.Fprintln(stderr, "Error: no text to digest")
		return 1
	}

	var out Output
	if remote {
		logger := logging.NewTextLogger()
		svc, err := app.NewAI(logger, nil)
		if err != nil {
			fmt.Fprintf(stderr, "Error: failed to load AI configuration: %v\n", err)
			return 1
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		out = remoteDigest(ctx, svc.Service, input)
	} else {
		out = localDigest(input)
	}

	if format == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}
	writeText(stdout, out)
	return 0
}

func readInput(file string, stdin io.Reader) (string, error) {
	if file == "" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}
	return string(b), nil
}

func localDigest(input string) Output {
	d := digest.Digest(text.StripHTML(input))
	return Output{
		Summary:       d.Summary,
		SummarySource: entity.SummarySourceLocal,
		Tags:          nonNil(d.Tags),
	}
}

// remoteDigest asks the AI service for both parts. Input below the service's
// minimum lengths is digested locally instead.
func remoteDigest(ctx context.Context, svc *aiUC.Service, input string) Output {
	out := localDigest(input)

	sum, err := svc.Summarize(ctx, input)
	switch {
	case err == nil:
		out.Summary, out.SummarySource = sum.Summary, sum.Source
	case !errors.Is(err, aiUC.ErrTextTooShort):
		slog.Warn("summary failed, using local engine", slog.Any("error", err))
	}

	tags, err := svc.Tags(ctx, input)
	switch {
	case err == nil:
		out.Tags = nonNil(tags.Tags)
	case !errors.Is(err, aiUC.ErrTextTooShort):
		slog.Warn("tagging failed, using local engine", slog.Any("error", err))
	}
	return out
}

func writeText(w io.Writer, out Output) {
	fmt.Fprintf(w, "Summary (%s):\n%s\n\n", out.SummarySource, out.Summary)
	if len(out.Tags) == 0 {
		fmt.Fprintln(w, "Tags: (none)")
		return
	}
	fmt.Fprintf(w, "Tags: %s\n", strings.Join(out.Tags, ", "))
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
