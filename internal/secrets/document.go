package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"
)

// Header prefixes recognized in a secrets file. Each is followed by one
// space and a single value token.
const (
	VersionHeader  = "#do-not-edit--secrets-version"
	SecretIDHeader = "#do-not-edit--secrets-id"
	FieldIDHeader  = "#do-not-edit--secrets-field-id"
)

// MaxVersion is the highest version a header can carry.
const MaxVersion = math.MaxInt32

// Document is a parsed secrets file: its text plus the metadata carried in
// its header lines. Content keeps the header lines verbatim.
type Document struct {
	// Path is where Write persists the document. Empty for documents built
	// from a decrypted remote field.
	Path string

	Content  string
	Version  *int
	SecretID *string
	FieldID  *string
}

// LoadDocument reads and parses the file at path. A missing file yields an
// empty document bound to path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: reading %s: %v", kerrors.ErrIO, path, err)
	}

	doc := &Document{Path: path, Content: string(data)}
	if err := doc.parse(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// ParseDocument parses content that did not come from disk, such as a
// decrypted remote field.
func ParseDocument(content string) (*Document, error) {
	doc := &Document{Content: content}
	if err := doc.parse(); err != nil {
		return nil, err
	}
	return doc, nil
}

// parse scans every line once. When a header appears more than once the
// last occurrence wins.
func (d *Document) parse() error {
	for _, line := range splitLines(d.Content) {
		switch {
		case strings.HasPrefix(line, VersionHeader):
			value, err := headerValue(line, "version")
			if err != nil {
				return err
			}
			version, err := strconv.ParseUint(value, 10, 31)
			if err != nil {
				return fmt.Errorf("%w: invalid version in header: %q", kerrors.ErrInvalidDocument, value)
			}
			v := int(version)
			d.Version = &v
		case strings.HasPrefix(line, FieldIDHeader):
			value, err := headerValue(line, "field_id")
			if err != nil {
				return err
			}
			d.FieldID = &value
		case strings.HasPrefix(line, SecretIDHeader):
			value, err := headerValue(line, "secret_id")
			if err != nil {
				return err
			}
			d.SecretID = &value
		}
	}
	return nil
}

func headerValue(line, name string) (string, error) {
	_, rest, found := strings.Cut(line, " ")
	fields := strings.Fields(rest)
	if !found || len(fields) == 0 {
		return "", fmt.Errorf("%w: invalid %s in header", kerrors.ErrInvalidDocument, name)
	}
	return fields[0], nil
}

// VersionOrZero returns the document version, treating an unversioned
// document as version 0.
func (d *Document) VersionOrZero() int {
	if d.Version == nil {
		return 0
	}
	return *d.Version
}

// SetVersion sets the version header value.
func (d *Document) SetVersion(version int) {
	d.Version = &version
}

// SetSecretID sets the secret reference header value.
func (d *Document) SetSecretID(id string) {
	d.SecretID = &id
}

// SetFieldID sets the field reference header value.
func (d *Document) SetFieldID(id string) {
	d.FieldID = &id
}

// SecretIDOrEmpty returns the secret reference or "".
func (d *Document) SecretIDOrEmpty() string {
	if d.SecretID == nil {
		return ""
	}
	return *d.SecretID
}

// FieldIDOrEmpty returns the field reference or "".
func (d *Document) FieldIDOrEmpty() string {
	if d.FieldID == nil {
		return ""
	}
	return *d.FieldID
}

// Payload returns the content without header lines and trailing newlines.
// Two documents with the same payload hold the same secrets.
func (d *Document) Payload() string {
	var body []string
	for _, line := range splitLines(d.Content) {
		if isHeaderLine(line) {
			continue
		}
		body = append(body, line)
	}
	return strings.TrimRight(strings.Join(body, "\n"), "\n")
}

// Write re-renders the header lines into Content and, when Path is set,
// replaces the file at Path with the result.
//
// Existing headers are updated in place and duplicates of the same header
// are removed. Lines end the way the first line of Content ends. Missing headers are added at the top in the order version,
// secret, field.
func (d *Document) Write() error {
	if d.SecretID == nil {
		return fmt.Errorf("%w: secret ID is not set", kerrors.ErrInvalidDocument)
	}
	if d.Version == nil {
		return fmt.Errorf("%w: version is not set", kerrors.ErrInvalidDocument)
	}

	type header struct {
		prefix string
		line   string
	}
	headers := []header{
		{VersionHeader, VersionHeader + " " + strconv.Itoa(*d.Version)},
		{SecretIDHeader, SecretIDHeader + " " + *d.SecretID},
	}
	if d.FieldID != nil {
		headers = append(headers, header{FieldIDHeader, FieldIDHeader + " " + *d.FieldID})
	}

	lines := splitLines(d.Content)
	var missing []string
	for _, h := range headers {
		var found bool
		lines, found = replaceHeader(lines, h.prefix, h.line)
		if !found {
			missing = append(missing, h.line)
		}
	}
	lines = append(missing, lines...)

	eol := lineEnding(d.Content)
	d.Content = strings.Join(lines, eol) + eol

	if d.Path == "" {
		return nil
	}

	if err := os.WriteFile(d.Path, []byte(d.Content), 0600); err != nil {
		return fmt.Errorf("%w: writing %s: %v", kerrors.ErrIO, d.Path, err)
	}

	return nil
}

// replaceHeader swaps the first line matching prefix for line and drops any
// later lines matching prefix.
func replaceHeader(lines []string, prefix, line string) ([]string, bool) {
	found := false
	out := lines[:0:0]
	for _, l := range lines {
		if !matchesHeader(l, prefix) {
			out = append(out, l)
			continue
		}
		if found {
			continue
		}
		found = true
		out = append(out, line)
	}
	return out, found
}

// matchesHeader reports whether l is a header line of the kind prefix.
// SecretIDHeader is not a prefix of the other headers, so a plain prefix
// check is enough.
func matchesHeader(l, prefix string) bool {
	return strings.HasPrefix(l, prefix)
}

func isHeaderLine(line string) bool {
	return matchesHeader(line, VersionHeader) ||
		matchesHeader(line, SecretIDHeader) ||
		matchesHeader(line, FieldIDHeader)
}

// lineEnding returns the ending of the first line of text, \r\n or \n.
func lineEnding(text string) string {
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// splitLines splits text into lines, accepting both \n and \r\n endings.
// A trailing newline does not produce an empty final line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
