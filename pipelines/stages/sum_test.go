// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mdhender/ratsum"
	"github.com/mdhender/ratsum/model"
	"github.com/mdhender/ratsum/pipelines/stages"
	store "github.com/mdhender/ratsum/stores/sqlite"
	"github.com/spf13/afero"
)

// mockStore implements stages.RunStore for testing.
type mockStore struct {
	runs []*model.Run
	err  error
}

func (m *mockStore) InsertRun(_ context.Context, run *model.Run) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.runs = append(m.runs, run)
	run.ID = int64(len(m.runs))
	return run.ID, nil
}

func newTestService(t *testing.T, fs afero.Fs, logs *bytes.Buffer, options ...stages.Option) *stages.SumService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc, err := stages.NewSumService(append([]stages.Option{stages.WithLogger(logger)}, options...)...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.SetFS(fs)
	return svc
}

func writeFile(t *testing.T, fs afero.Fs, path, data string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestSumService_Run(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "input01.txt", "1 2/4 x 5/0 -3\n")
	writeFile(t, fs, "input02.txt", "1/3\n\n  -1/-6 7/14\r\n")
	writeFile(t, fs, "input03.txt", "")
	logs := &bytes.Buffer{}
	svc := newTestService(t, fs, logs)

	result, err := svc.Run(ctx, stages.SumRequest{
		Inputs: []string{"input01.txt", "input02.txt", "input03.txt"},
		Output: "output.txt",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// 1 + 1/2 - 3 + 1/3 + 1/6 + 1/2 = -1/2
	if got, want := result.Sum.String(), "-1/2"; got != want {
		t.Errorf("sum = %s, want %s", got, want)
	}

	data, err := afero.ReadFile(fs, "output.txt")
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "Sum of all rational numbers: -1/2\n1/1\n1/2\n-3/1\n1/3\n1/6\n1/2\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}
	if result.BytesWritten != len(want) {
		t.Errorf("bytes written = %d, want %d", result.BytesWritten, len(want))
	}

	if got := strings.Count(logs.String(), "skipping invalid input"); got != 2 {
		t.Errorf("logged %d skip warnings, want 2:\n%s", got, logs.String())
	}
	var skipped []string
	for _, diag := range result.Collection.Skipped {
		skipped = append(skipped, diag.String())
	}
	wantSkipped := []string{
		`input01.txt:1:7: WARN: skipping invalid input "x"`,
		`input01.txt:1:9: WARN: skipping invalid input "5/0"`,
	}
	if diff := cmp.Diff(wantSkipped, skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
	if got := result.Collection.Tokens; got != 8 {
		t.Errorf("tokens = %d, want 8", got)
	}
	if result.RunID != 0 {
		t.Errorf("run id = %d, want 0 without a store", result.RunID)
	}
}

func TestSumService_OverwritesOutput(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "in.txt", "1/2 1/3")
	writeFile(t, fs, "out.txt", strings.Repeat("stale\n", 100))
	svc := newTestService(t, fs, &bytes.Buffer{})

	if _, err := svc.Run(ctx, stages.SumRequest{Inputs: []string{"in.txt"}, Output: "out.txt"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := afero.ReadFile(fs, "out.txt")
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if got, want := string(data), "Sum of all rational numbers: 5/6\n1/2\n1/3\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestSumService_NoInputs(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	svc := newTestService(t, fs, &bytes.Buffer{})

	result, err := svc.Run(ctx, stages.SumRequest{Output: "out.txt"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Sum.Equal(ratsum.FromInt(0)) {
		t.Errorf("sum = %v, want 0/1", result.Sum)
	}
	data, _ := afero.ReadFile(fs, "out.txt")
	if got, want := string(data), "Sum of all rational numbers: 0/1\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestSumService_MissingInput(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "input01.txt", "1")
	svc := newTestService(t, fs, &bytes.Buffer{})

	_, err := svc.Run(ctx, stages.SumRequest{
		Inputs: []string{"input01.txt", "missing.txt"},
		Output: "out.txt",
	})
	var readErr *stages.ErrReadFile
	if !errors.As(err, &readErr) {
		t.Fatalf("run: err = %v, want *ErrReadFile", err)
	}
	if readErr.Path != "missing.txt" || readErr.Op != "open" {
		t.Errorf("read error = %+v", readErr)
	}
	if got := stages.ErrorCode(err); got != stages.ErrCodeReadFile {
		t.Errorf("error code = %q, want %q", got, stages.ErrCodeReadFile)
	}
	if ok, _ := afero.Exists(fs, "out.txt"); ok {
		t.Errorf("output written after a read failure")
	}
}

func TestSumService_UnwritableOutput(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "in.txt", "1")
	svc := newTestService(t, fs, &bytes.Buffer{})
	svc.SetFS(afero.NewReadOnlyFs(fs))

	_, err := svc.Run(ctx, stages.SumRequest{Inputs: []string{"in.txt"}, Output: "out.txt"})
	var writeErr *stages.ErrWriteFile
	if !errors.As(err, &writeErr) {
		t.Fatalf("run: err = %v, want *ErrWriteFile", err)
	}
	if got := stages.ErrorCode(err); got != stages.ErrCodeWriteFile {
		t.Errorf("error code = %q, want %q", got, stages.ErrCodeWriteFile)
	}
}

func TestSumService_Mkdir(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "in.txt", "2/3")
	svc := newTestService(t, fs, &bytes.Buffer{}, stages.WithMkdir(true))

	if _, err := svc.Run(ctx, stages.SumRequest{Inputs: []string{"in.txt"}, Output: "reports/2025/out.txt"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if ok, _ := afero.Exists(fs, "reports/2025/out.txt"); !ok {
		t.Errorf("output not written")
	}
}

func TestSumService_LargeValues(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	// the primes through 53; their product does not fit in an int64
	writeFile(t, fs, "in.txt", "1/2 1/3 1/5 1/7 1/11 1/13 1/17 1/19\n1/23 1/29 1/31 1/37 1/41 1/43 1/47 1/53\n")
	writeFile(t, fs, "pow.txt", "1/4294967296 1/4294967296\n")
	svc := newTestService(t, fs, &bytes.Buffer{})

	result, err := svc.Run(ctx, stages.SumRequest{Inputs: []string{"pow.txt"}, Output: "pow.out"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, want := result.Sum.String(), "1/2147483648"; got != want {
		t.Errorf("sum = %s, want %s", got, want)
	}

	result, err = svc.Run(ctx, stages.SumRequest{Inputs: []string{"in.txt"}, Output: "out.txt"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, want := result.Sum.Denom().String(), "32589158477190044730"; got != want {
		t.Errorf("sum denominator = %s, want %s", got, want)
	}
	data, err := afero.ReadFile(fs, "out.txt")
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "/32589158477190044730") {
		t.Errorf("output does not contain the sum:\n%s", data)
	}
}

func TestSumService_Int64Boundaries(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "in.txt", "1 -9223372036854775808/-1 2\n1/-9223372036854775808 99999999999999999999\n")
	logs := &bytes.Buffer{}
	svc := newTestService(t, fs, logs)

	result, err := svc.Run(ctx, stages.SumRequest{Inputs: []string{"in.txt"}, Output: "out.txt"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Collection.Skipped) != 0 {
		t.Errorf("skipped = %v, want none", result.Collection.Skipped)
	}
	var got []string
	for v := range result.Collection.List.Values() {
		got = append(got, v.String())
	}
	want := []string{"1/1", "9223372036854775808/1", "2/1", "-1/9223372036854775808", "99999999999999999999/1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if ok, _ := afero.Exists(fs, "out.txt"); !ok {
		t.Errorf("output not written")
	}
}

func TestSumService_SkipsEveryParseError(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "in.txt", "1 1/0 2/x -- +/- 1/2/3 3\n")
	svc := newTestService(t, fs, &bytes.Buffer{})

	result, err := svc.Run(ctx, stages.SumRequest{Inputs: []string{"in.txt"}, Output: "out.txt"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, want := result.Sum.String(), "4/1"; got != want {
		t.Errorf("sum = %s, want %s", got, want)
	}
	if got, want := len(result.Collection.Skipped), 5; got != want {
		t.Errorf("skipped = %d, want %d", got, want)
	}
}

func TestSumService_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "in.txt", "1")
	svc := newTestService(t, fs, &bytes.Buffer{})

	if _, err := svc.Collect(ctx, []string{"in.txt"}); !errors.Is(err, context.Canceled) {
		t.Errorf("collect: err = %v, want context.Canceled", err)
	}
}

func TestSumService_Warnings(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "in.txt", "1\n2 oops 3\n")
	logs, warnings := &bytes.Buffer{}, &bytes.Buffer{}
	svc := newTestService(t, fs, logs, stages.WithWarnings(warnings))

	if _, err := svc.Run(ctx, stages.SumRequest{Inputs: []string{"in.txt"}, Output: "out.txt"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "in.txt:2:3: WARN: skipping invalid input \"oops\"\n    2 oops 3\n      ^\n"
	if !strings.HasPrefix(warnings.String(), want) {
		t.Errorf("warnings = %q, want prefix %q", warnings.String(), want)
	}
	if strings.Contains(logs.String(), "skipping invalid input") {
		t.Errorf("skip was reported twice:\n%s", logs.String())
	}
}

func TestSumService_RecordsRun(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "a.txt", "1 2/4\nx")
	writeFile(t, fs, "b.txt", "-3")
	runs := &mockStore{}
	svc := newTestService(t, fs, &bytes.Buffer{}, stages.WithStore(runs))

	result, err := svc.Run(ctx, stages.SumRequest{Inputs: []string{"a.txt", "b.txt"}, Output: "out.txt"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.RunID != 1 || len(runs.runs) != 1 {
		t.Fatalf("run id = %d, runs = %d, want 1 and 1", result.RunID, len(runs.runs))
	}
	run := runs.runs[0]
	if run.Sum != "-3/2" || run.Elements != 3 || run.Skipped != 1 || run.Output != "out.txt" {
		t.Errorf("run = %+v", run)
	}
	if run.CreatedAt.IsZero() {
		t.Errorf("run created at is zero")
	}
	var gotValues []model.SrcRef
	for _, v := range run.Values {
		gotValues = append(gotValues, v.Src)
	}
	wantValues := []model.SrcRef{
		{File: "a.txt", Line: 1, Column: 1, Token: "1"},
		{File: "a.txt", Line: 1, Column: 3, Token: "2/4"},
		{File: "b.txt", Line: 1, Column: 1, Token: "-3"},
	}
	if diff := cmp.Diff(wantValues, gotValues); diff != "" {
		t.Errorf("value sources mismatch (-want +got):\n%s", diff)
	}
	if run.Values[1].Numerator != "1" || run.Values[1].Denominator != "2" {
		t.Errorf("value 1 = %s/%s, want 1/2", run.Values[1].Numerator, run.Values[1].Denominator)
	}
	if got, want := run.Skips[0].Src, (model.SrcRef{File: "a.txt", Line: 2, Column: 1, Token: "x"}); got != want {
		t.Errorf("skip source = %+v, want %+v", got, want)
	}
}

func TestSumService_StoreFailure(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "in.txt", "1")
	svc := newTestService(t, fs, &bytes.Buffer{}, stages.WithStore(&mockStore{err: errors.New("disk full")}))

	_, err := svc.Run(ctx, stages.SumRequest{Inputs: []string{"in.txt"}, Output: "out.txt"})
	var dbErr *stages.ErrDatabase
	if !errors.As(err, &dbErr) {
		t.Fatalf("run: err = %v, want *ErrDatabase", err)
	}
}

func TestSumService_RecordsRunInSQLite(t *testing.T) {
	ctx := context.Background()
	sqlStore, err := store.NewSQLiteStore()
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer sqlStore.Close()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "in.txt", "1/2 bad 1/3")
	svc := newTestService(t, fs, &bytes.Buffer{}, stages.WithStore(sqlStore))

	result, err := svc.Run(ctx, stages.SumRequest{Inputs: []string{"in.txt"}, Output: "out.txt"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	run, err := sqlStore.GetRun(ctx, result.RunID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run == nil || run.Sum != "5/6" || len(run.Values) != 2 || len(run.Skips) != 1 {
		t.Fatalf("get run: %+v", run)
	}
	if run.Skips[0].Src.Token != "bad" {
		t.Errorf("skip token = %q, want %q", run.Skips[0].Src.Token, "bad")
	}
}
