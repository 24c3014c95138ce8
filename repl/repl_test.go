package repl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kakkky/csole/compiler/token"
	"github.com/kakkky/csole/errs"
	"github.com/kakkky/csole/linereader"
	"github.com/kakkky/csole/registry"
	"github.com/kakkky/csole/version"
	gomock "go.uber.org/mock/gomock"
)

type read struct {
	line string
	err  error
}

// fakeReader は用意した読み取り結果を順に返す。尽きたらio.EOFを返す
type fakeReader struct {
	reads   []read
	prompts []string
	history []string
	loaded  string
	saved   string
}

func (f *fakeReader) ReadLine(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.reads) == 0 {
		return "", io.EOF
	}
	r := f.reads[0]
	f.reads = f.reads[1:]
	return r.line, r.err
}

func (f *fakeReader) AddHistory(line string)        { f.history = append(f.history, line) }
func (f *fakeReader) LoadHistory(path string) error { f.loaded = path; return nil }
func (f *fakeReader) SaveHistory(path string) error { f.saved = path; return nil }
func (f *fakeReader) Close() error                  { return nil }

func lines(ls ...string) []read {
	reads := make([]read, len(ls))
	for i, l := range ls {
		reads[i] = read{line: l}
	}
	return reads
}

const banner = "csole " + version.VERSION + "\nType \":help\" for more information.\n"

func newTestRepl(t *testing.T, reader *fakeReader, ev evaluator, out io.Writer) *Repl {
	t.Helper()
	reg, err := registry.New(BuiltinCommands(ev, &fakeSwitcher{})...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewRepl(reader, ev, reg, out, WithHistoryFile("/tmp/csole-test-history"))
}

func TestRepl_Run(t *testing.T) {
	tests := []struct {
		name            string
		reads           []read
		setupMocks      func(*Mockevaluator, *bytes.Buffer)
		expectedOutput  string
		expectedHistory []string
		expectedReads   int
	}{
		{
			name:  "evaluates a code line",
			reads: lines("2 + 2"),
			setupMocks: func(m *Mockevaluator, out *bytes.Buffer) {
				m.EXPECT().Evaluate("2 + 2").DoAndReturn(func(string) error {
					fmt.Fprintln(out, "=> 4")
					return nil
				}).Times(1)
			},
			expectedOutput:  banner + "=> 4\n\n",
			expectedHistory: []string{"2 + 2"},
			expectedReads:   2,
		},
		{
			name:  "blank lines are ignored and lines are trimmed",
			reads: lines("", "   ", "  7  "),
			setupMocks: func(m *Mockevaluator, out *bytes.Buffer) {
				m.EXPECT().Evaluate("7").Return(nil).Times(1)
			},
			expectedOutput:  banner + "\n",
			expectedHistory: []string{"7"},
			expectedReads:   4,
		},
		{
			name:            "unknown command is reported and never compiled",
			reads:           lines(":bogus"),
			setupMocks:      func(*Mockevaluator, *bytes.Buffer) {},
			expectedOutput:  banner + "unknown command ':bogus'\n\n",
			expectedHistory: []string{":bogus"},
			expectedReads:   2,
		},
		{
			name:            "unknown command with arguments",
			reads:           lines(":Quit now"),
			setupMocks:      func(*Mockevaluator, *bytes.Buffer) {},
			expectedOutput:  banner + "unknown command ':Quit'\n\n",
			expectedHistory: []string{":Quit now"},
			expectedReads:   2,
		},
		{
			name:  "syntax error does not stop the session",
			reads: lines("(1 + 2", "3"),
			setupMocks: func(m *Mockevaluator, out *bytes.Buffer) {
				gomock.InOrder(
					m.EXPECT().Evaluate("(1 + 2").
						Return(errs.NewSyntaxError(token.Location{Line: 2, Column: 1}, "expected ')', got end of input")).Times(1),
					m.EXPECT().Evaluate("3").DoAndReturn(func(string) error {
						fmt.Fprintln(out, "=> 3")
						return nil
					}).Times(1),
				)
			},
			expectedOutput:  banner + "error: expected ')', got end of input\n=> 3\n\n",
			expectedHistory: []string{"(1 + 2", "3"},
			expectedReads:   3,
		},
		{
			name: "interrupt abandons the line and reads again",
			reads: []read{
				{err: linereader.ErrInterrupted},
				{line: "1"},
				{err: linereader.ErrInterrupted},
			},
			setupMocks: func(m *Mockevaluator, out *bytes.Buffer) {
				m.EXPECT().Evaluate("1").Return(nil).Times(1)
			},
			expectedOutput:  banner + "\n",
			expectedHistory: []string{"1"},
			expectedReads:   4,
		},
		{
			name:            "quit stops before reading again",
			reads:           lines(":quit", "1"),
			setupMocks:      func(*Mockevaluator, *bytes.Buffer) {},
			expectedOutput:  banner,
			expectedHistory: []string{":quit"},
			expectedReads:   1,
		},
		{
			name:  "failing lines are kept in history in order",
			reads: lines("1 / 0", ":nope", "1.5", ":history"),
			setupMocks: func(m *Mockevaluator, out *bytes.Buffer) {
				gomock.InOrder(
					m.EXPECT().Evaluate("1 / 0").
						Return(errs.NewSemanticError(token.Location{Line: 1, Column: 3}, "division by zero")).Times(1),
					m.EXPECT().Evaluate("1.5").Return(errs.NewUnsupportedResultTypeError("double")).Times(1),
				)
			},
			expectedOutput: banner +
				"error: division by zero\n" +
				"unknown command ':nope'\n" +
				"error: expression returns unsupported type: double\n" +
				"    1  1 / 0\n" +
				"    2  :nope\n" +
				"    3  1.5\n" +
				"    4  :history\n" +
				"\n",
			expectedHistory: []string{"1 / 0", ":nope", "1.5", ":history"},
			expectedReads:   5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockEvaluator := NewMockevaluator(ctrl)
			var out bytes.Buffer
			tt.setupMocks(mockEvaluator, &out)
			reader := &fakeReader{reads: tt.reads}

			err := newTestRepl(t, reader, mockEvaluator, &out).Run()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.expectedOutput, out.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.expectedHistory, reader.history); diff != "" {
				t.Errorf("history mismatch (-want +got):\n%s", diff)
			}
			if len(reader.prompts) != tt.expectedReads {
				t.Errorf("expected %d reads, got %d", tt.expectedReads, len(reader.prompts))
			}
			if reader.loaded != "/tmp/csole-test-history" || reader.saved != "/tmp/csole-test-history" {
				t.Errorf("history must be loaded and saved once, got load=%q save=%q", reader.loaded, reader.saved)
			}
		})
	}
}

func TestRepl_Run_ReadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockEvaluator := NewMockevaluator(ctrl)
	reader := &fakeReader{reads: []read{{err: errors.New("terminal gone")}}}
	var out bytes.Buffer

	err := newTestRepl(t, reader, mockEvaluator, &out).Run()
	if !errs.IsFatal(err) {
		t.Fatalf("expected a fatal InputError, got %v", err)
	}
	if err.Error() != "failed to read input: terminal gone" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if reader.saved == "" {
		t.Error("history must be saved when the session stops")
	}
}

func TestRepl_Run_RecoversPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockEvaluator := NewMockevaluator(ctrl)
	gomock.InOrder(
		mockEvaluator.EXPECT().Evaluate("1").DoAndReturn(func(string) error {
			panic("boom")
		}).Times(1),
		mockEvaluator.EXPECT().Evaluate("2").Return(nil).Times(1),
	)
	reader := &fakeReader{reads: lines("1", "2")}
	var out bytes.Buffer

	if err := newTestRepl(t, reader, mockEvaluator, &out).Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	report := out.String()
	reported := strings.Index(report, "[INTERNAL ERROR]\n boom\n")
	if reported < 0 {
		t.Fatalf("the recovered panic must be reported to the session output, got %q", report)
	}
	if stack := strings.Index(report, "goroutine"); stack < reported {
		t.Error("the stack of the recovered panic must follow the error report")
	}
}

func TestRepl_Prompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := &fakeReader{}
	reg, err := registry.New()
	if err != nil {
		t.Fatal(err)
	}
	if err := NewRepl(reader, NewMockevaluator(ctrl), reg, io.Discard, WithPrompt("c> ")).Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"c> "}, reader.prompts); diff != "" {
		t.Errorf("prompt mismatch (-want +got):\n%s", diff)
	}
	if reader.loaded != "" || reader.saved != "" {
		t.Error("history must not be touched without a history file")
	}
}
