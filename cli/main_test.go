package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crabstar-lang/crabstar/core/astfmt"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the root command in dir. A non-empty stdin counts as piped.
func runCLI(t *testing.T, dir, stdin string, env map[string]string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := &app{
		stdin:      strings.NewReader(stdin),
		stdout:     &stdout,
		stderr:     &stderr,
		stdinPiped: func() bool { return stdin != "" },
		lookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		dir: dir,
	}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireCLIError(t *testing.T, err error, typ string) *CLIError {
	t.Helper()
	require.Error(t, err)
	cliErr, ok := err.(*CLIError)
	require.True(t, ok, "want *CLIError, got %T: %v", err, err)
	assert.Equal(t, typ, cliErr.Type)
	return cliErr
}

func TestParseTreeFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.cs", "let x: 1\n")

	res := runCLI(t, dir, "", nil, "parse", path)
	require.NoError(t, res.err)

	assert.Equal(t, path+":\n└─ let x (value)\n   └─ 1\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestParseSexprFromStdin(t *testing.T) {
	dir := t.TempDir()

	for _, args := range [][]string{
		{"parse", "--format", "sexpr", "-"},
		{"parse", "--format", "sexpr"},
	} {
		res := runCLI(t, dir, "let f :: (a): a\nlet l => 2.5\n", nil, args...)
		require.NoError(t, res.err)
		assert.Equal(t, "(let f (a) a)\n(let l () 2.5)\n", res.stdout)
	}
}

func TestParseJSONValidates(t *testing.T) {
	res := runCLI(t, t.TempDir(), "let x: if a: 1 else: )", nil, "parse", "--format", "json")
	requireCLIError(t, res.err, "parse")

	require.NoError(t, astfmt.ValidateJSON([]byte(res.stdout)))

	doc, err := astfmt.ReadJSON(strings.NewReader(res.stdout))
	require.NoError(t, err)
	assert.Equal(t, stdinName, doc.Filename)
	assert.Positive(t, doc.ErrorCount())
	require.Len(t, doc.Declarations, 1)
	assert.Equal(t, "x", doc.Declarations[0].Name)
}

func TestParseCBORRoundTrips(t *testing.T) {
	res := runCLI(t, t.TempDir(), "let add :: (a, b): a + b", nil, "parse", "--format", "cbor")
	require.NoError(t, res.err)

	decls, err := astfmt.UnmarshalCanonical([]byte(res.stdout))
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "(let add (a b) (+ a b))", decls[0].String())
}

func TestParseReportsErrors(t *testing.T) {
	res := runCLI(t, t.TempDir(), "let x: * 2\nlet y: 3", nil, "parse", "--format", "sexpr")

	cliErr := requireCLIError(t, res.err, "parse")
	assert.Equal(t, "<stdin>: 1 syntax error", cliErr.Message)

	assert.Equal(t, "(let x <error>)\n(let y 3)\n", res.stdout)
	assert.Contains(t, res.stderr, "syntax error: expected expression, found '*'")
	assert.Contains(t, res.stderr, "--> <stdin>:1:8")
}

func TestParseNestedElif(t *testing.T) {
	src := "let v: if a: 1 elif b: 2 else: 3"

	res := runCLI(t, t.TempDir(), src, nil, "parse", "--format", "sexpr")
	require.NoError(t, res.err)
	assert.Equal(t, "(let v (if a 1 (if b 2)))\n", res.stdout)
	assert.Contains(t, res.stderr, "warning: else branch after elif is discarded")

	res = runCLI(t, t.TempDir(), src, nil, "parse", "--format", "sexpr", "--nested-elif")
	require.NoError(t, res.err)
	assert.Equal(t, "(let v (if a 1 (if b 2 3)))\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestParseNoInput(t *testing.T) {
	res := runCLI(t, t.TempDir(), "", nil, "parse")
	cliErr := requireCLIError(t, res.err, "input")
	assert.Equal(t, "no input", cliErr.Message)
}

func TestParseMissingFile(t *testing.T) {
	dir := t.TempDir()
	res := runCLI(t, dir, "", nil, "parse", filepath.Join(dir, "nope.cs"))
	cliErr := requireCLIError(t, res.err, "input")
	assert.Contains(t, cliErr.Message, "error opening file")
}

func TestParseInvalidFormat(t *testing.T) {
	res := runCLI(t, t.TempDir(), "let x: 1", nil, "parse", "--format", "xml")
	cliErr := requireCLIError(t, res.err, "input")
	assert.Contains(t, cliErr.Details, `format: invalid value "xml"`)
}

func TestParseWatchNeedsFile(t *testing.T) {
	res := runCLI(t, t.TempDir(), "let x: 1", nil, "parse", "--watch", "-")
	requireCLIError(t, res.err, "watch")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.cs", "let x: 1")
	bad := writeSource(t, dir, "bad.cs", "let x: )")
	warn := writeSource(t, dir, "warn.cs", "let v: if a: 1 elif b: 2 elif c: 3")

	res := runCLI(t, dir, "", nil, "check", good, bad, warn)

	cliErr := requireCLIError(t, res.err, "parse")
	assert.Equal(t, "1 of 3 inputs have syntax errors", cliErr.Message)
	assert.Contains(t, res.stdout, good+": ok\n")
	assert.Contains(t, res.stdout, bad+": 2 errors, 0 warnings\n")
	assert.Contains(t, res.stdout, warn+": 1 warning\n")
	assert.Contains(t, res.stdout, "warning: elif branch is superseded by the following elif")
}

func TestCheckUsesDiscoveredConfig(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, ".crabstar.yaml", "nested_elif: true\n")
	path := writeSource(t, dir, "warn.cs", "let v: if a: 1 elif b: 2 elif c: 3")

	res := runCLI(t, dir, "", nil, "check", path)
	require.NoError(t, res.err)
	assert.Equal(t, path+": ok\n", res.stdout)
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeSource(t, dir, "bad.toml", "color = \"sometimes\"\n")

	res := runCLI(t, dir, "let x: 1", nil, "--config", cfg, "check")
	requireCLIError(t, res.err, "config")

	res = runCLI(t, dir, "let x: 1", map[string]string{"CRABSTAR_FORMAT": "xml"}, "check")
	requireCLIError(t, res.err, "config")
}

func TestDigestIgnoresLayout(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.cs", "let f::(a,b):a+b")
	b := writeSource(t, dir, "b.cs", "let f :: (a, b):\n  a + b\n")

	resA := runCLI(t, dir, "", nil, "digest", a)
	require.NoError(t, resA.err)
	resB := runCLI(t, dir, "", nil, "digest", b)
	require.NoError(t, resB.err)

	digestA, nameA, _ := strings.Cut(strings.TrimSpace(resA.stdout), "  ")
	digestB, nameB, _ := strings.Cut(strings.TrimSpace(resB.stdout), "  ")
	assert.Equal(t, digestA, digestB)
	assert.True(t, strings.HasPrefix(digestA, "blake2b:"))
	assert.Equal(t, a, nameA)
	assert.Equal(t, b, nameB)
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.cs", "let x: 1\nlet y: 2")
	same := writeSource(t, dir, "same.cs", "let x:1 let y:2")
	changed := writeSource(t, dir, "changed.cs", "let x: 1\nlet y: 3")

	res := runCLI(t, dir, "", nil, "diff", a, same)
	require.NoError(t, res.err)
	assert.Equal(t, "No differences found.\n", res.stdout)

	res = runCLI(t, dir, "", nil, "diff", a, changed)
	assert.ErrorIs(t, res.err, errDifferences)
	assert.Contains(t, res.stdout, "Modified declarations:\n  decl 2:\n    - (let y 2)\n    + (let y 3)\n")
}

func TestSchema(t *testing.T) {
	dir := t.TempDir()

	res := runCLI(t, dir, "", nil, "schema")
	require.NoError(t, res.err)
	assert.Equal(t, string(astfmt.Schema()), res.stdout)

	parsed := runCLI(t, dir, "let x: 1", nil, "parse", "--format", "json")
	require.NoError(t, parsed.err)
	doc := writeSource(t, dir, "doc.json", parsed.stdout)

	res = runCLI(t, dir, "", nil, "schema", "--validate", doc)
	require.NoError(t, res.err)
	assert.Equal(t, doc+": valid\n", res.stdout)

	broken := writeSource(t, dir, "broken.json", `{"format":"v1.0.0"}`)
	res = runCLI(t, dir, "", nil, "schema", "--validate", broken)
	requireCLIError(t, res.err, "input")
}

func TestTelemetryFlag(t *testing.T) {
	res := runCLI(t, t.TempDir(), "let x: 1", nil, "--telemetry", "parse", "--format", "sexpr")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "telemetry: <stdin>: 8 bytes, 1 declarations, 2 nodes, 0 errors, 0 warnings, 0 recoveries\n")

	res = runCLI(t, t.TempDir(), "let x: 1", nil, "--telemetry=timing", "parse", "--format", "sexpr")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "parsed in ")
}

func TestDebugFlag(t *testing.T) {
	res := runCLI(t, t.TempDir(), "let x: 1", nil, "--debug", "parse", "--format", "sexpr")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "enter_let declaration")
	assert.NotContains(t, res.stderr, "level=")
	assert.NotContains(t, res.stderr, "time=")

	res = runCLI(t, t.TempDir(), "let x: 1", map[string]string{"CRABSTAR_DEBUG": "1"}, "parse", "--format", "sexpr")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "enter_let declaration")

	res = runCLI(t, t.TempDir(), "let x: 1", nil, "parse", "--format", "sexpr")
	require.NoError(t, res.err)
	assert.Empty(t, res.stderr)
}
