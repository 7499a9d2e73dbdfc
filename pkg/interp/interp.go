// Package interp implements the line-oriented command grammar FreyjaTree
// accepts from a script or an interactive session: q(uery), a(dd),
// d(elete), and f(ile), each on its own line. It is the Go-native
// replacement for db_fine.c's interpret_command, rebuilt against
// pkg/store instead of calling the engine directly.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ssargent/freyjatree/pkg/store"
)

// MaxResponseLen bounds how much of a value interp ever reports back,
// mirroring interpret_command's fixed-size response buffer. Longer
// values are still stored in full; only the reported text is truncated.
const MaxResponseLen = 255

const (
	respIllFormed   = "ill-formed command"
	respNotFound    = "not found"
	respBadFileName = "bad file name"
	respFileDone    = "file processed"
)

// Interpreter executes commands against a store.KVStore.
type Interpreter struct {
	store *store.KVStore
	// depth guards against file commands recursing into themselves or
	// each other forever.
	depth    int
	maxDepth int
}

// New returns an Interpreter bound to kv.
func New(kv *store.KVStore) *Interpreter {
	return &Interpreter{store: kv, maxDepth: 32}
}

// Execute runs a single command line and returns its response text,
// truncated to MaxResponseLen. It never returns a Go error for a
// malformed command — that is reported in the response text, exactly
// as the original interpreter did — but does return one if the
// underlying store itself faults (for example, if it was never
// opened).
func (in *Interpreter) Execute(line string) (string, error) {
	line = strings.TrimRight(line, "\r\n")
	if len(line) <= 1 {
		return respIllFormed, nil
	}

	verb := line[0]
	rest := strings.TrimSpace(line[1:])
	fields := strings.Fields(rest)

	switch verb {
	case 'q':
		if len(fields) < 1 {
			return respIllFormed, nil
		}
		return in.query(fields[0])

	case 'a':
		if len(fields) < 2 {
			return respIllFormed, nil
		}
		return in.add(fields[0], fields[1])

	case 'd':
		if len(fields) < 1 {
			return respIllFormed, nil
		}
		return in.remove(fields[0])

	case 'f':
		if len(fields) < 1 {
			return respIllFormed, nil
		}
		return in.file(fields[0])

	default:
		return respIllFormed, nil
	}
}

func (in *Interpreter) query(name string) (string, error) {
	value, found, err := in.store.Query(name)
	if err != nil {
		return "", err
	}
	if !found {
		return respNotFound, nil
	}
	return truncate(value), nil
}

func (in *Interpreter) add(name, value string) (string, error) {
	result, err := in.store.Add(name, value)
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

func (in *Interpreter) remove(name string) (string, error) {
	removed, err := in.store.Remove(name)
	if err != nil {
		return "", err
	}
	if !removed {
		return "not present", nil
	}
	return "removed", nil
}

// file processes every line of the named file in order, silently
// discarding each line's individual response — matching
// interpret_command's behavior of only reporting the outer "file
// processed" (or "bad file name") result. Lines that are themselves
// file commands recurse, bounded by maxDepth.
func (in *Interpreter) file(name string) (string, error) {
	if in.depth >= in.maxDepth {
		return respIllFormed, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return respBadFileName, nil
	}
	defer f.Close()

	in.depth++
	defer func() { in.depth-- }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if _, err := in.Execute(scanner.Text()); err != nil {
			return "", err
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}

	return respFileDone, nil
}

func truncate(s string) string {
	if len(s) <= MaxResponseLen {
		return s
	}
	return s[:MaxResponseLen]
}
