package clirundashboard

import (
	"bytes"
	"fmt"

	"github.com/Ethernal-Tech/bridge-transparency/common"
)

type cmdResult struct {
	tokens     int
	generation uint64
}

func (r cmdResult) GetOutput() string {
	var buffer bytes.Buffer

	common.WriteSection(&buffer, "Dashboard stopped", common.FormatKV([]string{
		fmt.Sprintf("Tokens|%d", r.tokens),
		fmt.Sprintf("Refresh cycles|%d", r.generation),
	}))

	return buffer.String()
}
