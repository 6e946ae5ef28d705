package astfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/mod/semver"

	"github.com/crabstar-lang/crabstar/core/ast"
)

// FormatVersion is the document format written by this package. Readers accept
// any document with the same major version.
const FormatVersion = "v1.0.0"

// Severity of a diagnostic.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Diagnostic is a parse error or warning in serializable form.
type Diagnostic struct {
	Severity   string   `json:"severity"`
	Line       int      `json:"line"`
	Column     int      `json:"column"`
	Offset     int      `json:"offset"`
	EndLine    int      `json:"end_line"`
	EndColumn  int      `json:"end_column"`
	EndOffset  int      `json:"end_offset"`
	Message    string   `json:"message"`
	Context    string   `json:"context,omitempty"`
	Labels     []string `json:"labels,omitempty"`
	Expected   []string `json:"expected,omitempty"`
	Got        string   `json:"got,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Document is the JSON form of a parsed source.
type Document struct {
	Format       string       `json:"format"`
	Filename     string       `json:"filename,omitempty"`
	Declarations []Record     `json:"declarations"`
	Diagnostics  []Diagnostic `json:"diagnostics"`
	Digest       string       `json:"digest,omitempty"`
}

// NewDocument builds a document for decls. The digest is filled in.
func NewDocument(filename string, decls []*ast.Let, diags []Diagnostic) (*Document, error) {
	digest, err := Digest(decls)
	if err != nil {
		return nil, err
	}
	if diags == nil {
		diags = []Diagnostic{}
	}
	return &Document{
		Format:       FormatVersion,
		Filename:     filename,
		Declarations: FromDeclarations(decls),
		Diagnostics:  diags,
		Digest:       digest,
	}, nil
}

// ErrorCount returns the number of error diagnostics.
func (d *Document) ErrorCount() int {
	n := 0
	for _, diag := range d.Diagnostics {
		if diag.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Nodes decodes the declarations back into a tree.
func (d *Document) Nodes() ([]*ast.Let, error) {
	return ToDeclarations(d.Declarations)
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// ReadJSON reads a document, rejecting unknown fields and incompatible
// format versions.
func ReadJSON(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if err := checkVersion(doc.Format); err != nil {
		return nil, err
	}
	return &doc, nil
}

func checkVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("invalid format version %q", v)
	}
	if semver.Major(v) != semver.Major(FormatVersion) {
		return fmt.Errorf("unsupported format version %s (reader supports %s.x)", v, semver.Major(FormatVersion))
	}
	return nil
}
