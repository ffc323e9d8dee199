// Command shadow_compare replays read-only requests against the Express backend and the Go API
// and reports where their envelopes disagree.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type target struct {
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type fetched struct {
	status  int
	body    []byte
	elapsed time.Duration
}

type outcome struct {
	target  target
	legacy  fetched
	current fetched
	err     error
	report  diffReport
}

func (o outcome) breaking() bool {
	if o.err != nil || o.legacy.status != o.current.status {
		return true
	}
	return len(o.report.fields) > 0
}

func main() {
	goBase := flag.String("go-base", "http://localhost:8080", "Go API base URL")
	legacyBase := flag.String("legacy-base", "http://localhost:5000", "Express API base URL")
	targetsPath := flag.String("targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "JSON file listing GET paths")
	derived := flag.String("derived", "isBirthdayToday,isExpired", "Comma separated computed fields reported apart from stored data")
	timeout := flag.Duration("timeout", 5*time.Second, "per request timeout")
	parallel := flag.Int("parallel", 4, "targets compared at once")
	flag.Parse()

	targets, err := loadTargets(*targetsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shadow_compare: %v\n", err)
		os.Exit(2)
	}

	cmp := comparer{derived: splitList(*derived)}
	client := &http.Client{Timeout: *timeout}
	outcomes := make([]outcome, len(targets))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*parallel)
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			outcomes[i] = replay(ctx, client, cmp, *legacyBase, *goBase, t)
			return nil
		})
	}
	_ = g.Wait()

	if failures := printOutcomes(os.Stdout, outcomes); failures > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets: %w", err)
	}
	var file struct {
		Targets []target `json:"targets"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("%s lists no targets", path)
	}
	return file.Targets, nil
}

func splitList(raw string) map[string]bool {
	out := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out[part] = true
		}
	}
	return out
}

// replay fetches t from both backends in parallel and compares the answers.
func replay(ctx context.Context, client *http.Client, cmp comparer, legacyBase, goBase string, t target) outcome {
	out := outcome{target: t}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.legacy, err = fetch(gctx, client, legacyBase, t.Path)
		if err != nil {
			err = fmt.Errorf("legacy: %w", err)
		}
		return err
	})
	g.Go(func() (err error) {
		out.current, err = fetch(gctx, client, goBase, t.Path)
		if err != nil {
			err = fmt.Errorf("go: %w", err)
		}
		return err
	})
	if out.err = g.Wait(); out.err != nil {
		return out
	}
	out.report, out.err = cmp.compare(out.legacy.body, out.current.body)
	return out
}

func fetch(ctx context.Context, client *http.Client, base, path string) (fetched, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return fetched{}, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return fetched{}, err
	}
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fetched{}, fmt.Errorf("read body: %w", err)
	}
	return fetched{status: resp.StatusCode, body: body, elapsed: time.Since(start)}, nil
}

// printOutcomes writes one block per target and returns how many critical targets disagree.
func printOutcomes(w io.Writer, outcomes []outcome) int {
	failures, warnings := 0, 0
	for _, o := range outcomes {
		label := "same"
		switch {
		case o.breaking() && o.target.Critical:
			label = "FAIL"
			failures++
		case o.breaking():
			label = "diff"
			warnings++
		case len(o.report.derived) > 0:
			label = "drift"
		}
		fmt.Fprintf(w, "%-5s GET %s  legacy=%d/%s go=%d/%s\n", label, o.target.Path,
			o.legacy.status, o.legacy.elapsed.Round(time.Millisecond),
			o.current.status, o.current.elapsed.Round(time.Millisecond))
		if o.err != nil {
			fmt.Fprintf(w, "      error: %v\n", o.err)
			continue
		}
		for _, line := range o.report.fields {
			fmt.Fprintf(w, "      %s\n", line)
		}
		for _, line := range o.report.derived {
			fmt.Fprintf(w, "      derived %s\n", line)
		}
	}
	fmt.Fprintf(w, "%d targets, %d failing, %d non-critical diffs\n", len(outcomes), failures, warnings)
	return failures
}
