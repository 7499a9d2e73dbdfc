package interp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/freyjatree/pkg/store"
)

func newInterpreter(t *testing.T) *Interpreter {
	t.Helper()
	kv := store.NewKVStore(store.Config{})
	require.NoError(t, kv.Open())
	t.Cleanup(func() { _ = kv.Close() })
	return New(kv)
}

func TestScenario_AddThenQuery(t *testing.T) {
	in := newInterpreter(t)

	resp, err := in.Execute("a apple red")
	require.NoError(t, err)
	assert.Equal(t, "added", resp)

	resp, err = in.Execute("q apple")
	require.NoError(t, err)
	assert.Equal(t, "red", resp)
}

func TestScenario_DuplicateAdd(t *testing.T) {
	in := newInterpreter(t)

	_, err := in.Execute("a apple red")
	require.NoError(t, err)

	resp, err := in.Execute("a apple green")
	require.NoError(t, err)
	assert.Equal(t, "already present", resp)

	resp, err = in.Execute("q apple")
	require.NoError(t, err)
	assert.Equal(t, "red", resp)
}

func TestScenario_QueryAndRemoveOnEmptyStore(t *testing.T) {
	in := newInterpreter(t)

	resp, err := in.Execute("q banana")
	require.NoError(t, err)
	assert.Equal(t, "not found", resp)

	resp, err = in.Execute("d banana")
	require.NoError(t, err)
	assert.Equal(t, "not present", resp)
}

func TestScenario_RemoveRoot(t *testing.T) {
	in := newInterpreter(t)

	for _, cmd := range []string{
		"a m 1", "a f 2", "a t 3", "a a 4", "a h 5", "a p 6", "a z 7",
	} {
		_, err := in.Execute(cmd)
		require.NoError(t, err)
	}

	resp, err := in.Execute("d m")
	require.NoError(t, err)
	assert.Equal(t, "removed", resp)

	resp, err = in.Execute("q m")
	require.NoError(t, err)
	assert.Equal(t, "not found", resp)

	resp, err = in.Execute("q p")
	require.NoError(t, err)
	assert.Equal(t, "6", resp)
}

func TestScenario_RemoveTwoChildren(t *testing.T) {
	in := newInterpreter(t)

	for _, cmd := range []string{
		"a d v-d", "a b v-b", "a f v-f", "a a v-a", "a c v-c", "a e v-e", "a g v-g",
	} {
		_, err := in.Execute(cmd)
		require.NoError(t, err)
	}

	resp, err := in.Execute("d d")
	require.NoError(t, err)
	assert.Equal(t, "removed", resp)

	resp, err = in.Execute("q e")
	require.NoError(t, err)
	assert.Equal(t, "v-e", resp)
}

func TestMalformedCommands(t *testing.T) {
	in := newInterpreter(t)

	cases := []string{
		"",
		"q",
		"a name",
		"d",
		"f",
		"z whatever",
	}
	for _, c := range cases {
		resp, err := in.Execute(c)
		require.NoError(t, err)
		assert.Equal(t, "ill-formed command", resp, "command %q", c)
	}
}

func TestFileCommandProcessesEachLine(t *testing.T) {
	in := newInterpreter(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "commands.txt")
	contents := "a apple red\na pear green\nd apple\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	resp, err := in.Execute("f " + path)
	require.NoError(t, err)
	assert.Equal(t, "file processed", resp)

	r, err := in.Execute("q apple")
	require.NoError(t, err)
	assert.Equal(t, "not found", r)

	r, err = in.Execute("q pear")
	require.NoError(t, err)
	assert.Equal(t, "green", r)
}

func TestFileCommandBadFileName(t *testing.T) {
	in := newInterpreter(t)

	resp, err := in.Execute("f /no/such/path/commands.txt")
	require.NoError(t, err)
	assert.Equal(t, "bad file name", resp)
}

func TestValueTruncation(t *testing.T) {
	in := newInterpreter(t)

	long := make([]byte, MaxResponseLen+50)
	for i := range long {
		long[i] = 'x'
	}

	_, err := in.Execute("a k " + string(long))
	require.NoError(t, err)

	resp, err := in.Execute("q k")
	require.NoError(t, err)
	assert.Len(t, resp, MaxResponseLen)
}
