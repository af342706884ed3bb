package source_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnmkit/sdkgen/internal/codegen/model"
	"github.com/bnmkit/sdkgen/internal/codegen/source"
)

const yamlDoc = `module: Assembly-CSharp.dll
types:
  - name: Player
    namespace: Game
    kind: class
    base: MonoBehaviour
    fields:
      - name: hp
        type: int
        offset: "0x18"
    methods:
      - name: .ctor
      - name: Heal
        return: void
        params:
          - name: amount
            type: float
          - name: result
            type: int
            out: true
  - name: State
    namespace: Game
    kind: enum
    fields:
      - name: value__
        type: byte
      - name: Idle
        literal: true
        value: 0
      - name: Big
        literal: true
        value: "0x10"
`

const jsonDoc = `{
  "module": "Assembly-CSharp.dll",
  "types": [
    {"name": "Point", "kind": "struct", "fields": [{"name": "x", "type": "float"}]},
    {"name": "Mode", "kind": "enum", "underlying": "short",
     "fields": [{"name": "A", "literal": true, "value": 1}, {"name": "B", "literal": true, "value": 2.5}]}
  ]
}`

const tomlDoc = `module = "Lib.dll"

[[types]]
name = "Util"
namespace = "Tools"
sealed = true
abstract = true

  [[types.methods]]
  name = "Run"
  return = "bool"
  static = true
  extern = true

    [[types.methods.params]]
    name = "code"
    type = "string"
`

func TestReadDocumentYAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "model.yaml", yamlDoc)
	in, err := source.NewRegistry().Read(p)
	require.NoError(t, err)
	assert.Equal(t, "Assembly-CSharp.dll", in.Name)

	player := in.Model.Lookup("Game.Player")
	require.NotNil(t, player)
	assert.Equal(t, "Assembly-CSharp.dll", player.Module)
	assert.Equal(t, "MonoBehaviour", player.BaseType)
	require.Len(t, player.Methods, 2)
	assert.True(t, player.Methods[0].Constructor)
	assert.Equal(t, "void", player.Methods[0].Return.String())
	require.Len(t, player.Methods[1].Params, 2)
	assert.True(t, player.Methods[1].Params[1].Out)

	state := in.Model.Lookup("Game.State")
	require.NotNil(t, state)
	assert.Equal(t, model.KindEnum, state.Kind)
	require.NotNil(t, state.Underlying)
	assert.Equal(t, "byte", state.Underlying.String())
	require.Len(t, state.Fields, 2)
	assert.Equal(t, int64(0), state.Fields[0].Value)
	assert.Equal(t, int64(16), state.Fields[1].Value)
	assert.Equal(t, "0x10", state.Fields[1].RawValue)
	assert.True(t, state.Fields[1].Static)
}

func TestReadDocumentJSON(t *testing.T) {
	p := writeFile(t, t.TempDir(), "model.json", jsonDoc)
	in, err := source.ReadDocument(p)
	require.NoError(t, err)

	point := in.Model.Lookup("Point")
	require.NotNil(t, point)
	assert.Equal(t, model.KindStruct, point.Kind)
	assert.True(t, point.IsGlobal())

	mode := in.Model.Lookup("Mode")
	require.NotNil(t, mode)
	assert.Equal(t, "short", mode.Underlying.String())
	assert.Equal(t, int64(1), mode.Fields[0].Value)
	assert.Equal(t, "2.5", mode.Fields[1].Value)
}

func TestReadDocumentTOML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "model.toml", tomlDoc)
	in, err := source.ReadDocument(p)
	require.NoError(t, err)
	assert.Equal(t, "Lib.dll", in.Name)

	util := in.Model.Lookup("Tools.Util")
	require.NotNil(t, util)
	assert.True(t, util.IsStatic())
	require.Len(t, util.Methods, 1)
	run := util.Methods[0]
	assert.True(t, run.Static)
	assert.True(t, run.Extern)
	require.Len(t, run.Params, 1)
	assert.Equal(t, "string", run.Params[0].Type.String())
}

func TestReadDocumentNameFallback(t *testing.T) {
	p := writeFile(t, t.TempDir(), "anon.yml", "types:\n  - name: A\n")
	in, err := source.ReadDocument(p)
	require.NoError(t, err)
	assert.Equal(t, "anon.yml", in.Name)
	assert.Empty(t, in.Model.Lookup("A").Module)
}

func TestReadDocumentWithoutTypes(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"generate.yaml": "output: SDK\nclean: true\n",
		"generate.toml": "output = \"SDK\"\nclean = true\n",
		"manifest.json": `{"runId": "x", "generator": "sdkgen", "sources": []}`,
	} {
		_, err := source.ReadDocument(writeFile(t, dir, name, content))
		assert.ErrorIs(t, err, source.ErrEmptyDocument, name)
	}
}

func TestDecodeDocumentErrors(t *testing.T) {
	_, err := source.DecodeDocument([]byte("{"), "json")
	require.Error(t, err)

	_, err = source.DecodeDocument([]byte("x"), "xml")
	require.ErrorIs(t, err, source.ErrUnsupportedInput)

	_, err = source.ReadDocument(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
