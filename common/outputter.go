package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
)

const jsonOutputFlag = "json"

type ICommandResult interface {
	GetOutput() string
}

type OutputFormatter interface {
	io.Writer
	SetError(err error)
	SetCommandResult(result ICommandResult)
	WriteOutput()
}

// RegisterJSONOutputFlag adds the --json flag read by InitializeOutputter
func RegisterJSONOutputFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool(jsonOutputFlag, false, "get all outputs in json format (default false)")
}

func InitializeOutputter(cmd *cobra.Command) OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool(jsonOutputFlag)

	base := commonOutputFormatter{
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}

	if jsonOutput {
		return &jsonOutputter{commonOutputFormatter: base}
	}

	return &cliOutputter{commonOutputFormatter: base}
}

type commonOutputFormatter struct {
	out          io.Writer
	errOut       io.Writer
	errorOutput  error
	commandOuput ICommandResult
}

func (c *commonOutputFormatter) SetError(err error) {
	c.errorOutput = err
}

func (c *commonOutputFormatter) SetCommandResult(result ICommandResult) {
	c.commandOuput = result
}

func (c *commonOutputFormatter) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

type cliOutputter struct {
	commonOutputFormatter
}

func (c *cliOutputter) WriteOutput() {
	if c.errorOutput != nil {
		_, _ = fmt.Fprintf(c.errOut, "Error: %s\n", c.errorOutput.Error())

		return
	}

	if c.commandOuput != nil {
		_, _ = fmt.Fprintln(c.out, c.commandOuput.GetOutput())
	}
}

type jsonOutputter struct {
	commonOutputFormatter
}

func (j *jsonOutputter) WriteOutput() {
	if j.errorOutput != nil {
		_ = json.NewEncoder(j.errOut).Encode(map[string]string{"err": j.errorOutput.Error()})

		return
	}

	if j.commandOuput != nil {
		if err := json.NewEncoder(j.out).Encode(j.commandOuput); err != nil {
			_, _ = fmt.Fprintf(j.errOut, "Error: %s\n", err)
		}
	}
}

// FormatKV renders "key|value" rows as aligned "key = value" lines
func FormatKV(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	columnConf.Glue = " = "

	return columnize.Format(in, columnConf)
}

// FormatList renders "a|b|c" rows as an aligned table
func FormatList(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"

	return columnize.Format(in, columnConf)
}

// WriteSection writes a title followed by the rendered body
func WriteSection(buffer *bytes.Buffer, title string, body string) {
	buffer.WriteString("\n[")
	buffer.WriteString(title)
	buffer.WriteString("]\n")
	buffer.WriteString(body)
	buffer.WriteString("\n")
}
