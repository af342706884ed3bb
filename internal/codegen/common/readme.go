package common

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const readmeTemplate = `# Generated BNM SDK

Headers in this directory were generated by sdkgen from IL2CPP metadata.
Each source directory contains:

- ` + "`Includes/<namespace path>/<Type>.h`" + ` - one header per managed type
- ` + "`<namespace>.h`" + ` - includes every type header of that namespace
- ` + "`GlobalNamespace.h`" + ` - includes every type declared without a namespace

Every header includes ` + "`%s`" + ` and resolves types, fields and methods by
name at runtime through ByNameModding.

## Sources

%s
`

// GenerateReadme writes README.md into the output root, listing the
// generated source directories.
func GenerateReadme(logger *slog.Logger, outputDir, include string, sources []string) error {
	readmePath := filepath.Join(outputDir, "README.md")

	var list strings.Builder
	for _, s := range sources {
		fmt.Fprintf(&list, "- `%s/`\n", s)
	}

	content := fmt.Sprintf(readmeTemplate, include, strings.TrimRight(list.String(), "\n"))
	if err := os.WriteFile(readmePath, []byte(content), 0644); err != nil {
		return fmt.Errorf("write README.md: %w", err)
	}

	logger.Debug("Generated README.md", "path", readmePath)
	return nil
}
