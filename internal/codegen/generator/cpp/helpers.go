package cpp

import (
	"strings"
	"text/template"

	"github.com/bnmkit/sdkgen/internal/codegen/common"
)

func tplFuncs() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
	}
}

func writeFileHeader() string {
	return common.FileHeader("//", "C++")
}
