package common_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnmkit/sdkgen/internal/codegen/common"
)

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"health", "health"},
		{"<Name>k__BackingField", "$Name$k__BackingField"},
		{"List`1", "List$1"},
		{"a-b|c", "a$b$c"},
		{"Get[Item]", "GetItem"},
		{"Op(=,@)", "Op"},
		{"{x}", "x"},
		{"System.IDisposable.Dispose", "System_IDisposable_Dispose"},
		{"a::b", "a__b"},
		{"two words", "two_words"},
		{"", "_"},
		{"   ", "_"},
		{"()", "_"},
		{"1st", "_1st"},
		{"class", "$class"},
		{"register", "$register"},
		{"NULL", "$NULL"},
		{"INT32_MAX", "$INT32_MAX"},
		{"O", "$O"},
		{"Assert", "$Assert"},
		{"Classy", "Classy"},
		{"value", "$value"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, common.SanitizeIdentifier(tt.in))
		})
	}
}

func TestSanitizeIdentifierIdempotent(t *testing.T) {
	inputs := []string{
		"", "_", "class", "$class", "<>c__DisplayClass5_0", "1abc", "a b\tc",
		"Dictionary<string, List<int>>", "x=y", "NULL", "O", "get_Item",
		"Foo.Bar::Baz", "`", "9", "$", "-",
	}
	for _, in := range inputs {
		once := common.SanitizeIdentifier(in)
		assert.Equal(t, once, common.SanitizeIdentifier(once), "input %q", in)
	}
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "ListT", common.CleanName("List<T>"))
	assert.Equal(t, "List1", common.CleanName("List`1"))
	assert.Equal(t, "c__DisplayClass", common.CleanName("<>c__DisplayClass"))
	assert.Equal(t, "_", common.CleanName("<>"))
	assert.Equal(t, "_", common.CleanName(""))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "ab", common.FileName("a/b"))
	assert.Equal(t, "c__DisplayClass", common.FileName("<>c__DisplayClass"))
	assert.Equal(t, "_", common.FileName("<>"))
	assert.Equal(t, "_", common.FileName(".."))
	assert.Equal(t, "Player", common.FileName("Player"))
}

func TestUniqueNames(t *testing.T) {
	assert.Equal(t,
		[]string{"a", "a_1", "b", "a_2", "b_1"},
		common.UniqueNames([]string{"a", "a", "b", "a", "b"}))
	assert.Empty(t, common.UniqueNames(nil))

	// suffixes skip names already present
	assert.Equal(t,
		[]string{"a", "a_1", "a_2"},
		common.UniqueNames([]string{"a", "a_1", "a"}))
	assert.Equal(t,
		[]string{"a", "a_1", "a_1_1"},
		common.UniqueNames([]string{"a", "a", "a_1"}))
}

func TestNamespaceSegments(t *testing.T) {
	assert.Equal(t, []string{"GlobalNamespace"}, common.NamespaceSegments("", "GlobalNamespace"))
	assert.Equal(t, []string{"GlobalNamespace"}, common.NamespaceSegments("GlobalNamespace", "GlobalNamespace"))
	assert.Equal(t, []string{"UnityEngine", "UI"}, common.NamespaceSegments("UnityEngine.UI", "GlobalNamespace"))
	assert.Equal(t, []string{"Game", "$new"}, common.NamespaceSegments("Game.new", "GlobalNamespace"))
	assert.Equal(t, []string{"GlobalNamespace"}, common.NamespaceSegments("..", "GlobalNamespace"))
}

func TestModuleIdentifier(t *testing.T) {
	assert.Equal(t, "Assembly_CSharp", common.ModuleIdentifier("Assembly-CSharp.dll"))
	assert.Equal(t, "UnityEngineCoreModule", common.ModuleIdentifier("UnityEngine.CoreModule.dll"))
	assert.Equal(t, "_", common.ModuleIdentifier(""))
}

func TestIsReserved(t *testing.T) {
	assert.True(t, common.IsReserved("int"))
	assert.True(t, common.IsReserved("foreach"))
	assert.True(t, common.IsReserved("INT_MAX"))
	assert.False(t, common.IsReserved("Int"))
	assert.False(t, common.IsReserved(""))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, common.SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
}

func TestGetVersion(t *testing.T) {
	orig := common.Version
	t.Cleanup(func() { common.Version = orig })

	common.Version = ""
	v, err := common.GetVersion()
	require.NoError(t, err)
	assert.Equal(t, "0.0.1-dev", v)

	common.Version = "v1.4.0-3-gabc"
	v, err = common.GetVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.4.0-3-gabc", v)
	assert.Equal(t, "// Auto-generated C++ binding by sdkgen 1.4.0-3-gabc. DO NOT EDIT.", common.FileHeader("//", "C++"))

	common.Version = "nightly"
	_, err = common.GetVersion()
	assert.Error(t, err)
	assert.Contains(t, common.FileHeader("//", "C++"), "sdkgen unknown.")
}

func TestGenerateReadme(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, common.GenerateReadme(logger, dir, "BNMIncludes.hpp", []string{"dump.cs", "Assembly-CSharp.dll"}))

	data, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Every header includes `BNMIncludes.hpp`")
	assert.Contains(t, string(data), "- `dump.cs/`\n- `Assembly-CSharp.dll/`\n")
}
