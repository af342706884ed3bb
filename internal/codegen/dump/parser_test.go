package dump_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnmkit/sdkgen/internal/codegen/dump"
	"github.com/bnmkit/sdkgen/internal/codegen/model"
)

const sampleDump = `// Image 0: mscorlib.dll - 0
// Image 1: Assembly-CSharp.dll - 1

// Dll : Assembly-CSharp.dll
// Namespace: Game.Actors
public class Player : MonoBehaviour, IDamageable // TypeDefIndex: 100
{
	// Fields
	public int health; // 0x18
	private static Player instance; // 0x0
	private List<List<int>> grid; // 0x20
	private string <Name>k__BackingField; // 0x28

	// Methods

	// RVA: 0x1000 Offset: 0x1000 VA: 0x1000
	public void .ctor() { }

	// RVA: 0x1010 Offset: 0x1010 VA: 0x1010
	public void Damage(int amount) { }

	// RVA: 0x1020 Offset: 0x1020 VA: 0x1020
	public void Damage(int amount, bool crit) { }

	// RVA: -1 Offset: -1
	public static extern bool IsAlive(Player p, out float hp) { }

	public Dictionary<string, List<int>> Inventory(int a, int a, string b = "x,y") { }
}

// Namespace: Game.Actors
public enum State // TypeDefIndex: 101
{
	// Fields
	public byte value__; // 0x0
	public const State Idle = 0;
	public const State Running = 0x10;
	public const State Dead = -1;
	public const State Odd = Idle;
}

// Namespace: 
public struct Point // TypeDefIndex: 102
{
	// Fields
	public float x; // 0x10
	public float y; // 0x14
	public static Point zero; // 0x0

	// Methods
	public float Length() { }
}

// Namespace: 
public static class Util // TypeDefIndex: 103
{
	public static int Count; // 0x0
}
`

func TestParseSample(t *testing.T) {
	res, err := dump.Parse(strings.NewReader(sampleDump))
	require.NoError(t, err)
	m := res.Model

	assert.Equal(t, []string{"Game.Actors", model.GlobalNamespace}, m.Namespaces())
	assert.Equal(t, 4, m.Len())

	player := m.Lookup("Game.Actors.Player")
	require.NotNil(t, player)
	assert.Equal(t, model.KindClass, player.Kind)
	assert.Equal(t, "Assembly-CSharp.dll", player.Module)
	assert.Equal(t, "MonoBehaviour", player.BaseType)
	require.Len(t, player.Fields, 4)
	assert.Equal(t, "health", player.Fields[0].Name)
	assert.Equal(t, "0x18", player.Fields[0].Offset)
	assert.True(t, player.Fields[1].Static)
	assert.Equal(t, "List<List<int>>", player.Fields[2].Type.String())
	assert.Equal(t, "Namek__BackingField", player.Fields[3].Name)
	assert.Equal(t, "<Name>k__BackingField", player.Fields[3].LookupName())

	require.Len(t, player.Methods, 5)
	ctor := player.Methods[0]
	assert.True(t, ctor.Constructor)
	assert.Equal(t, "0x1000", ctor.Offset)

	damage := player.Methods[2]
	assert.Equal(t, "Damage", damage.Name)
	assert.Len(t, damage.Params, 2)
	assert.Equal(t, "0x1020", damage.Offset)

	alive := player.Methods[3]
	assert.True(t, alive.Static)
	assert.True(t, alive.Extern)
	assert.Empty(t, alive.Offset)
	require.Len(t, alive.Params, 2)
	assert.True(t, alive.Params[1].Out)
	assert.Equal(t, "float", alive.Params[1].Type.String())

	inv := player.Methods[4]
	require.Len(t, inv.Params, 3)
	assert.Equal(t, "b", inv.Params[2].Name)
	assert.Equal(t, model.RefGeneric, inv.Return.Kind)

	state := m.Lookup("State")
	require.NotNil(t, state)
	assert.Equal(t, model.KindEnum, state.Kind)
	require.NotNil(t, state.Underlying)
	assert.Equal(t, "byte", state.Underlying.String())
	require.Len(t, state.Fields, 4)
	assert.Equal(t, int64(0), state.Fields[0].Value)
	assert.Equal(t, int64(16), state.Fields[1].Value)
	assert.Equal(t, "0x10", state.Fields[1].RawValue)
	assert.Equal(t, int64(-1), state.Fields[2].Value)
	assert.Equal(t, "Idle", state.Fields[3].Value)
	for _, f := range state.Fields {
		assert.True(t, f.Literal)
		assert.True(t, f.Static)
	}

	point := m.Lookup("Point")
	require.NotNil(t, point)
	assert.Equal(t, model.KindStruct, point.Kind)
	assert.True(t, point.IsGlobal())
	assert.Len(t, point.Fields, 3)

	util := m.Lookup("Util")
	require.NotNil(t, util)
	assert.True(t, util.IsStatic())
}

func TestParseDeterministic(t *testing.T) {
	a := dump.ParseLines(strings.Split(sampleDump, "\n"))
	b := dump.ParseLines(strings.Split(sampleDump, "\n"))
	assert.Equal(t, a, b)
}

func TestParseBaseTypeTopLevelComma(t *testing.T) {
	res := dump.ParseLines([]string{
		"// Namespace: N",
		"public class Cache : Dictionary<string, List<int>>, IDisposable",
		"{",
		"}",
	})
	c := res.Model.Lookup("N.Cache")
	require.NotNil(t, c)
	assert.Equal(t, "Dictionary<string, List<int>>", c.BaseType)
}

func TestParseGenericDeclaration(t *testing.T) {
	res := dump.ParseLines([]string{
		"// Namespace: N",
		"public class Pool<T, U> : Base where T : class",
		"{",
		"\tpublic T item; // 0x10",
		"}",
	})
	pool := res.Model.Lookup("N.Pool")
	require.NotNil(t, pool)
	assert.Equal(t, "PoolT, U", pool.Name)
	assert.Equal(t, "Pool", pool.LookupName())
	assert.Equal(t, []string{"T", "U"}, pool.GenericParams)
	assert.Equal(t, "Base", pool.BaseType)
	assert.Len(t, pool.Fields, 1)
}

func TestParseClosesOnSameLineBraces(t *testing.T) {
	res := dump.ParseLines([]string{
		"// Namespace: N",
		"public class Empty { }",
		"public int stray; // 0x10",
		"public class Next",
		"{",
		"\tpublic int kept; // 0x10",
		"}",
	})
	require.Equal(t, 2, res.Model.Len())
	assert.Empty(t, res.Model.Lookup("Empty").Fields)
	assert.Len(t, res.Model.Lookup("Next").Fields, 1)
}

func TestParseBracesPerOccurrence(t *testing.T) {
	res := dump.ParseLines([]string{
		"public class A",
		"{",
		"\tpublic int Prop { get; set; }",
		"\tpublic void M() { }",
		"\tpublic int after; // 0x10",
		"}",
		"public class B",
		"{",
		"}",
	})
	a := res.Model.Lookup("A")
	require.NotNil(t, a)
	assert.Len(t, a.Fields, 1)
	assert.Len(t, a.Methods, 1)
	assert.NotNil(t, res.Model.Lookup("B"))
}

func TestParseNamespaceLookback(t *testing.T) {
	res := dump.ParseLines([]string{
		"//Namespace: Recovered",
		"[Serializable]",
		"public class Late",
		"{",
		"}",
	})
	late := res.Model.Lookup("Late")
	require.NotNil(t, late)
	assert.Equal(t, "Recovered", late.Namespace)
}

func TestParseNamespaceLookbackBounded(t *testing.T) {
	lines := []string{"//Namespace: TooFar"}
	for i := 0; i < dump.NamespaceLookback; i++ {
		lines = append(lines, "[Attr]")
	}
	lines = append(lines, "public class Far", "{", "}")
	res := dump.ParseLines(lines)
	far := res.Model.Lookup("Far")
	require.NotNil(t, far)
	assert.Equal(t, model.GlobalNamespace, far.Namespace)
}

func TestParseEnumRoundTrip(t *testing.T) {
	res := dump.ParseLines([]string{
		"public enum E",
		"{",
		"A = 0,",
		"B = 1",
		"}",
	})
	e := res.Model.Lookup("E")
	require.NotNil(t, e)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "A", e.Fields[0].Name)
	assert.Equal(t, int64(0), e.Fields[0].Value)
	assert.Equal(t, "B", e.Fields[1].Name)
	assert.Equal(t, int64(1), e.Fields[1].Value)
	assert.Nil(t, e.Underlying)
}

func TestParseEnumUnderlyingFromDeclaration(t *testing.T) {
	res := dump.ParseLines([]string{
		"public enum Flags : ushort",
		"{",
		"X = 1,",
		"}",
	})
	f := res.Model.Lookup("Flags")
	require.NotNil(t, f)
	require.NotNil(t, f.Underlying)
	assert.Equal(t, "ushort", f.Underlying.String())
}

func TestParseDiagnostics(t *testing.T) {
	res := dump.ParseLines([]string{
		"}",
		"public class C",
		"{",
		"\tpublic void M(int) { }",
		"}",
	})
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, 1, res.Diagnostics[0].Line)
	assert.Contains(t, res.Diagnostics[0].Reason, "unbalanced")
	assert.Equal(t, 4, res.Diagnostics[1].Line)
	assert.Contains(t, res.Diagnostics[1].String(), "has no name")

	c := res.Model.Lookup("C")
	require.NotNil(t, c)
	require.Len(t, c.Methods, 1)
	require.Len(t, c.Methods[0].Params, 1)
	assert.Equal(t, dump.PlaceholderParam, c.Methods[0].Params[0].Name)
	assert.Equal(t, "int", c.Methods[0].Params[0].Type.String())
}

func TestParseParamsKeepArgumentCount(t *testing.T) {
	res := dump.ParseLines([]string{
		"public class C",
		"{",
		"\tpublic void M(int a, [In] , in Vector3 v, ref int r, out bool ok) { }",
		"}",
	})
	require.Len(t, res.Diagnostics, 1)

	m := res.Model.Lookup("C").Methods[0]
	require.Len(t, m.Params, 5)
	assert.False(t, m.Params[0].Out)
	assert.Equal(t, dump.PlaceholderParam, m.Params[1].Name)
	assert.Equal(t, "object", m.Params[1].Type.String())
	for _, p := range m.Params[2:] {
		assert.True(t, p.Out, p.Name)
	}
	assert.Equal(t, "Vector3", m.Params[2].Type.String())
}

func TestParseDefaultModule(t *testing.T) {
	res, err := dump.ParseModule(strings.NewReader("public class A\n{\n}\n"), "Fallback.dll")
	require.NoError(t, err)
	assert.Equal(t, "Fallback.dll", res.Model.Lookup("A").Module)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestParseReadError(t *testing.T) {
	res, err := dump.Parse(failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read dump")
	assert.NotNil(t, res)
}
