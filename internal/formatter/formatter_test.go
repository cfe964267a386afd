package formatter

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type fakeRunner struct {
	codes map[string]int
	err   error
	calls [][]string
}

func (f *fakeRunner) Run(_ context.Context, argv []string) (int, error) {
	f.calls = append(f.calls, argv)
	if f.err != nil {
		return 0, f.err
	}
	return f.codes[argv[1]], nil
}

func selection(tokens ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

var (
	bazelApply = []string{"bazel", "run", "//tools/format:buildifier"}
	bazelCheck = []string{"bazel", "run", "//tools/format:buildifier-test"}
	cppApply   = []string{"bazel", "build", "//...", "--config", "tidy"}
	cppCheck   = []string{"bazel", "build", "//...", "--config", "tidy-test"}
)

func TestDispatcherSelection(t *testing.T) {
	cases := []struct {
		name   string
		tokens []string
		test   bool
		want   [][]string
	}{
		{"all", []string{"all"}, false, [][]string{bazelApply, cppApply}},
		{"allWithOthers", []string{"python", "all", "bazel"}, false, [][]string{bazelApply, cppApply}},
		{"allTest", []string{"all"}, true, [][]string{bazelCheck, cppCheck}},
		{"bazelOnly", []string{"bazel"}, false, [][]string{bazelApply}},
		{"cppOnly", []string{"cpp"}, true, [][]string{cppCheck}},
		{"cxxAlias", []string{"c++"}, false, [][]string{cppApply}},
		{"cppAndCxxOnce", []string{"cpp", "c++"}, false, [][]string{cppApply}},
		{"orderIsFixed", []string{"cpp", "bazel"}, false, [][]string{bazelApply, cppApply}},
		{"nothing", []string{"python", "go"}, false, nil},
		{"empty", nil, true, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runner := &fakeRunner{}
			var out bytes.Buffer
			code, err := New(runner, &out, nil).Run(context.Background(), selection(tc.tokens...), tc.test)
			if err != nil {
				t.Fatalf("Run returned error: %v", err)
			}
			if code != 0 {
				t.Fatalf("Run exit code = %d, want 0", code)
			}
			if !reflect.DeepEqual(runner.calls, tc.want) {
				t.Fatalf("calls = %#v, want %#v", runner.calls, tc.want)
			}
			if len(tc.want) == 0 && out.Len() != 0 {
				t.Fatalf("expected no output, got %q", out.String())
			}
		})
	}
}

func TestDispatcherStopsAtFirstFailure(t *testing.T) {
	runner := &fakeRunner{codes: map[string]int{"run": 3}}
	var out bytes.Buffer
	code, err := New(runner, &out, nil).Run(context.Background(), selection("bazel", "cpp"), false)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if code != 3 {
		t.Fatalf("Run exit code = %d, want 3", code)
	}
	if !reflect.DeepEqual(runner.calls, [][]string{bazelApply}) {
		t.Fatalf("calls = %#v, want only bazel", runner.calls)
	}
	if strings.Contains(out.String(), "C++") {
		t.Fatalf("C++ formatter should not be announced: %q", out.String())
	}
}

func TestDispatcherPropagatesLaterFailure(t *testing.T) {
	runner := &fakeRunner{codes: map[string]int{"build": 42}}
	code, err := New(runner, &bytes.Buffer{}, nil).Run(context.Background(), selection("all"), true)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if code != 42 {
		t.Fatalf("Run exit code = %d, want 42", code)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("expected both formatters to run, got %d calls", len(runner.calls))
	}
}

func TestDispatcherStartFailure(t *testing.T) {
	boom := errors.New("bazel not found")
	runner := &fakeRunner{err: boom}
	_, err := New(runner, &bytes.Buffer{}, nil).Run(context.Background(), selection("all"), false)
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want %v", err, boom)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected dispatcher to stop after first start failure, got %d calls", len(runner.calls))
	}
}

func TestDispatcherAnnouncements(t *testing.T) {
	var out bytes.Buffer
	if _, err := New(&fakeRunner{}, &out, nil).Run(context.Background(), selection("all"), true); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	const want = "\nRunning Bazel formatter in test mode...\n\n\nRunning C++ formatter in test mode...\n\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestAnnouncement(t *testing.T) {
	if got := Announcement("Bazel", false); got != "Running Bazel formatter..." {
		t.Fatalf("Announcement = %q", got)
	}
	if got := Announcement("C++", true); got != "Running C++ formatter in test mode..." {
		t.Fatalf("Announcement = %q", got)
	}
}
