package engine

import (
	"bytes"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

// DuplicateStrictness controls duplicate key handling in detection helpers.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by internal helpers.
// Path is dotted, with array elements addressed by index ("items.2.sku").
type SimpleIssue struct {
	Code    string
	Path    string
	Key     string
	Message string
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	path         string
	keys         map[string]struct{}
	expectingKey bool
	key          string
	index        int
}

// child returns the path of the value about to be read in f.
func (f *frame) child() string {
	seg := f.key
	if f.kind == kindArray {
		seg = strconv.Itoa(f.index)
	}
	if f.path == "" {
		return seg
	}
	return f.path + "." + seg
}

// consumed marks the end of a value inside f.
func (f *frame) consumed() {
	if f.kind == kindArray {
		f.index++
		return
	}
	f.expectingKey = true
}

// DetectJSONDuplicateKeysBytes detects duplicate object keys from a JSON byte slice.
// If onDup is DupIgnore, no issues are produced. maxIssues < 0 means unlimited; 0 means disabled; >0 sets limit.
// With DupError detection stops at the first duplicate.
func DetectJSONDuplicateKeysBytes(data []byte, onDup DuplicateStrictness, maxIssues int) ([]SimpleIssue, error) {
	return DetectJSONDuplicateKeysReader(bytes.NewReader(data), onDup, maxIssues)
}

// DetectJSONDuplicateKeysReader detects duplicate object keys from an io.Reader.
// Note: this will consume the reader fully. Malformed input is reported as
// an error, not as an issue.
func DetectJSONDuplicateKeysReader(r io.Reader, onDup DuplicateStrictness, maxIssues int) ([]SimpleIssue, error) {
	if onDup == DupIgnore || maxIssues == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var (
		issues []SimpleIssue
		stack  []frame
	)
	top := func() *frame {
		if len(stack) == 0 {
			return nil
		}
		return &stack[len(stack)-1]
	}
	open := func(kind containerKind) {
		path := ""
		if f := top(); f != nil {
			path = f.child()
		}
		stack = append(stack, frame{kind: kind, path: path, keys: map[string]struct{}{}, expectingKey: kind == kindObject})
	}
	closeFrame := func() {
		if len(stack) > 0 {
			stack = stack[:len(stack)-1]
		}
		if f := top(); f != nil {
			f.consumed()
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return issues, nil
		}
		if err != nil {
			return issues, err
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				open(kindObject)
			case '[':
				open(kindArray)
			case '}', ']':
				closeFrame()
			}
			continue
		case string:
			if f := top(); f != nil && f.kind == kindObject && f.expectingKey {
				f.key = v
				f.expectingKey = false
				if _, dup := f.keys[v]; dup {
					issues = append(issues, SimpleIssue{Code: "duplicate_key", Path: f.child(), Key: v, Message: "key '" + v + "' duplicated"})
					if onDup == DupError || (maxIssues > 0 && len(issues) >= maxIssues) {
						return issues, nil
					}
				}
				f.keys[v] = struct{}{}
				continue
			}
		}
		if f := top(); f != nil {
			f.consumed()
		}
	}
}
