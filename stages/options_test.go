package stages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompilerOptions_Clone(t *testing.T) {
	orig := CompilerOptions{"auto_optimize": true, "level": 2}
	clone := orig.Clone()
	clone["auto_optimize"] = false
	clone["extra"] = "x"

	assert.Equal(t, true, orig["auto_optimize"])
	assert.NotContains(t, orig, "extra")
}

func TestActiveCompilerOptions_ReturnsCopy(t *testing.T) {
	defer ResetCompilerOptions()

	got := ActiveCompilerOptions()
	got["auto_optimize"] = false

	assert.Equal(t, true, ActiveCompilerOptions()["auto_optimize"],
		"mutating the returned copy must not reach the live set")
}

func TestUpdateActiveCompilerOptions_MergeAndRestore(t *testing.T) {
	ResetCompilerOptions()
	defer ResetCompilerOptions()

	previous := UpdateActiveCompilerOptions(CompilerOptions{
		"auto_optimize": false,
		"target":        "cpu",
	})
	assert.Equal(t, DefaultCompilerOptions, previous)

	active := ActiveCompilerOptions()
	assert.Equal(t, false, active["auto_optimize"])
	assert.Equal(t, true, active["simplify"], "untouched keys survive a merge")
	assert.Equal(t, "cpu", active["target"])

	// Round-tripping the returned previous set restores the defaults for
	// every key it covered.
	UpdateActiveCompilerOptions(previous)
	assert.Equal(t, true, ActiveCompilerOptions()["auto_optimize"])
}

func TestResetCompilerOptions(t *testing.T) {
	UpdateActiveCompilerOptions(CompilerOptions{"simplify": false})
	ResetCompilerOptions()
	assert.Equal(t, DefaultCompilerOptions, ActiveCompilerOptions())
}

func TestFinalizeCompilerOptions(t *testing.T) {
	defer ResetCompilerOptions()

	tests := []struct {
		name  string
		setup CompilerOptions
		local CompilerOptions
		key   string
		want  any
	}{
		{name: "defaults when nothing set", key: "auto_optimize", want: true},
		{name: "local overrides default", local: CompilerOptions{"auto_optimize": false}, key: "auto_optimize", want: false},
		{name: "global participates", setup: CompilerOptions{"target": "gpu"}, key: "target", want: "gpu"},
		{name: "local overrides global", setup: CompilerOptions{"target": "gpu"}, local: CompilerOptions{"target": "cpu"}, key: "target", want: "cpu"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ResetCompilerOptions()
			if tc.setup != nil {
				UpdateActiveCompilerOptions(tc.setup)
			}
			final := FinalizeCompilerOptions(tc.local)
			assert.Equal(t, tc.want, final[tc.key])
		})
	}
}
