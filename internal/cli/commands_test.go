package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMoveShow(t *testing.T) {
	db := tempDB(t)

	out, err := execute(t, db, "", "add", "todo", "A")
	require.NoError(t, err)
	assert.Equal(t, "1. A (id=1, key=1/1)\n", out)

	_, err = execute(t, db, "", "add", "todo", "B")
	require.NoError(t, err)
	out, err = execute(t, db, "", "add", "todo", "oat", "milk")
	require.NoError(t, err)
	assert.Equal(t, "3. oat milk (id=3, key=3/1)\n", out)

	out, err = execute(t, db, "", "move", "todo", "3", "1")
	require.NoError(t, err)
	assert.Equal(t, "moved id 3 to position 1 (key=1/2)\n", out)

	out, err = execute(t, db, "", "show", "todo")
	require.NoError(t, err)
	assert.Equal(t, "1. oat milk (id=3, key=1/2)\n2. A (id=1, key=1/1)\n3. B (id=2, key=2/1)\n", out)
}

func TestShow_JSON(t *testing.T) {
	db := tempDB(t)
	_, err := execute(t, db, "", "add", "todo", "A")
	require.NoError(t, err)
	_, err = execute(t, db, "", "add", "todo", "B")
	require.NoError(t, err)

	out, err := execute(t, db, "", "--format", "json", "show", "todo")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   ShowResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "todo", resp.Data.List)
	assert.Equal(t, []ItemView{
		{Position: 1, ID: 1, Key: "1/1", Payload: "A"},
		{Position: 2, ID: 2, Key: "2/1", Payload: "B"},
	}, resp.Data.Items)
}

func TestShow_EmptyAndMissing(t *testing.T) {
	db := tempDB(t)
	_, err := execute(t, db, "", "add", "todo", "A")
	require.NoError(t, err)
	_, err = execute(t, db, "", "rm", "todo", "1")
	require.NoError(t, err)

	out, err := execute(t, db, "", "show", "todo")
	require.NoError(t, err)
	assert.Equal(t, "todo is empty\n", out)

	out, err = execute(t, db, "", "show", "nope")
	require.Error(t, err)
	assert.Contains(t, out, "Error [E003]")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestMove_Errors(t *testing.T) {
	db := tempDB(t)
	_, err := execute(t, db, "", "add", "todo", "A")
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		code string
		exit int
	}{
		{"unknown item", []string{"move", "todo", "9", "1"}, "E004", ExitFailure},
		{"position too large", []string{"move", "todo", "1", "2"}, "E005", ExitFailure},
		{"position zero", []string{"move", "todo", "1", "0"}, "E005", ExitFailure},
		{"bad id", []string{"move", "todo", "x", "1"}, "E001", ExitCommandError},
		{"zero id", []string{"move", "todo", "0", "1"}, "E001", ExitCommandError},
		{"bad position", []string{"move", "todo", "1", "first"}, "E001", ExitCommandError},
		{"unknown list", []string{"move", "nope", "1", "1"}, "E003", ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, db, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, out, "Error ["+tt.code+"]")
			assert.Equal(t, tt.exit, GetExitCode(err))
		})
	}

	// Nothing above changed the list.
	out, err := execute(t, db, "", "show", "todo")
	require.NoError(t, err)
	assert.Equal(t, "1. A (id=1, key=1/1)\n", out)
}

func TestMove_ErrorJSON(t *testing.T) {
	db := tempDB(t)
	_, err := execute(t, db, "", "add", "todo", "A")
	require.NoError(t, err)

	out, err := execute(t, db, "", "--format", "json", "move", "todo", "1", "5")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodePosition, resp.Error.Code)
}

func TestRemove_PartialFailure(t *testing.T) {
	db := tempDB(t)
	for _, p := range []string{"A", "B", "C"} {
		_, err := execute(t, db, "", "add", "todo", p)
		require.NoError(t, err)
	}

	out, err := execute(t, db, "", "rm", "todo", "1", "7", "3")
	require.Error(t, err)
	assert.Contains(t, out, "deleted id 1\ndeleted id 3\n")
	assert.Contains(t, out, "Error [E004]")

	out, err = execute(t, db, "", "show", "todo")
	require.NoError(t, err)
	assert.Equal(t, "1. B (id=2, key=2/1)\n", out)
}

func TestCompact(t *testing.T) {
	db := tempDB(t)
	for _, p := range []string{"A", "B", "C"} {
		_, err := execute(t, db, "", "add", "todo", p)
		require.NoError(t, err)
	}
	_, err := execute(t, db, "", "move", "todo", "3", "1")
	require.NoError(t, err)

	out, err := execute(t, db, "", "compact", "todo")
	require.NoError(t, err)
	assert.Equal(t, "compacted todo: 3 items\n", out)

	out, err = execute(t, db, "", "show", "todo")
	require.NoError(t, err)
	assert.Equal(t, "1. C (id=3, key=1/1)\n2. A (id=1, key=2/1)\n3. B (id=2, key=3/1)\n", out)
}

func TestListsAndDrop(t *testing.T) {
	db := tempDB(t)

	out, err := execute(t, db, "", "lists")
	require.NoError(t, err)
	assert.Equal(t, "No lists.\n", out)

	_, err = execute(t, db, "", "add", "work", "report")
	require.NoError(t, err)
	_, err = execute(t, db, "", "add", "home", "dishes")
	require.NoError(t, err)

	out, err = execute(t, db, "", "lists")
	require.NoError(t, err)
	assert.Equal(t, "home\nwork\n", out)

	out, err = execute(t, db, "", "drop", "home")
	require.NoError(t, err)
	assert.Equal(t, "dropped list: home\n", out)

	out, err = execute(t, db, "", "drop", "home")
	require.Error(t, err)
	assert.Contains(t, out, "Error [E003]")

	out, err = execute(t, db, "", "lists")
	require.NoError(t, err)
	assert.Equal(t, "work\n", out)
}

func TestOpenFailure(t *testing.T) {
	out, err := execute(t, "/nonexistent/dir/lists.db", "", "lists")
	require.Error(t, err)
	assert.Contains(t, out, "Error [E002]")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestArgumentCount(t *testing.T) {
	_, err := execute(t, tempDB(t), "", "move", "todo", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 3 arg(s)")
}
