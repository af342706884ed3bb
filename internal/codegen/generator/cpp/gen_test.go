package cpp_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnmkit/sdkgen/internal/codegen/generator/cpp"
	"github.com/bnmkit/sdkgen/internal/codegen/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func generatorModel() *model.Model {
	m := model.New()
	m.Add(&model.Type{Name: "Player", Namespace: "Game.Actors", Module: "Assembly-CSharp.dll"})
	m.Add(&model.Type{Name: "Enemy", Namespace: "Game.Actors", Module: "Assembly-CSharp.dll"})
	m.Add(&model.Type{Name: "Hud", Module: "Assembly-CSharp.dll"})
	m.Add(&model.Type{Name: "State", Namespace: "Game", Kind: model.KindEnum})
	return m
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGenerateLayout(t *testing.T) {
	out := t.TempDir()
	res, err := cpp.Generate(discardLogger(), out, generatorModel(), cpp.DefaultOptions(), cpp.NewOverloadTable())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Includes/Game/State.h",
		"Includes/Game/Actors/Player.h",
		"Includes/Game/Actors/Enemy.h",
		"Includes/Hud.h",
	}, res.Types)
	assert.Equal(t, []string{"Game.h", "Game.Actors.h", "GlobalNamespace.h"}, res.Aggregates)
	assert.Zero(t, res.Failed)

	for _, rel := range res.Types {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(rel)))
	}

	assert.Equal(t,
		"#include \"Includes/Game/Actors/Player.h\"\n#include \"Includes/Game/Actors/Enemy.h\"\n",
		readFile(t, filepath.Join(out, "Game.Actors.h")))
	assert.Equal(t, "#include \"Includes/Hud.h\"\n", readFile(t, filepath.Join(out, "GlobalNamespace.h")))

	hud := readFile(t, filepath.Join(out, "Includes", "Hud.h"))
	assert.Contains(t, hud, "namespace GlobalNamespace {")
	assert.Contains(t, hud, `BNM::Class("", "Hud", BNM::Image("Assembly-CSharp.dll"))`)
}

func TestGenerateAppendsAggregates(t *testing.T) {
	out := t.TempDir()
	m := generatorModel()
	for i := 0; i < 2; i++ {
		_, err := cpp.Generate(discardLogger(), out, m, cpp.DefaultOptions(), nil)
		require.NoError(t, err)
	}
	agg := readFile(t, filepath.Join(out, "GlobalNamespace.h"))
	assert.Equal(t, 2, strings.Count(agg, "Includes/Hud.h"))
}

func TestGenerateContinuesAfterTypeFailure(t *testing.T) {
	out := t.TempDir()
	blocker := filepath.Join(out, "Includes", "Game", "Actors", "Player.h")
	require.NoError(t, os.MkdirAll(blocker, 0o755))

	res, err := cpp.Generate(discardLogger(), out, generatorModel(), cpp.DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Len(t, res.Types, 3)
	assert.NotContains(t, readFile(t, filepath.Join(out, "Game.Actors.h")), "Player.h")
}

func TestGenerateBadOutputDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := cpp.Generate(discardLogger(), filepath.Join(file, "sub"), generatorModel(), cpp.DefaultOptions(), nil)
	require.Error(t, err)
}

func TestTypePath(t *testing.T) {
	assert.Equal(t, "Includes/UnityEngine/UI/Button.h", cpp.TypePath(&model.Type{Name: "Button", Namespace: "UnityEngine.UI"}))
	assert.Equal(t, "Includes/c__DisplayClass.h", cpp.TypePath(&model.Type{Name: "<>c__DisplayClass", Namespace: model.GlobalNamespace}))
}
