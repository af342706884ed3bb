package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/bnmkit/sdkgen/internal/codegen/common"
)

type Version struct{}

func (v *Version) Run() error {
	return v.print(os.Stdout)
}

func (v *Version) print(w io.Writer) error {
	version, err := common.GetVersion()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "sdkgen %s\n", version)
	return err
}
