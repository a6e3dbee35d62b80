package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Console is the line oriented terminal the REPL talks through.
type Console struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewConsole reads lines from in and writes to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		reader: bufio.NewReader(in),
		writer: out,
	}
}

// ReadLine returns the next input line without its line ending. A final
// line without a newline is returned before io.EOF.
func (c *Console) ReadLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil && len(line) == 0 {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Prompt prints prompt and reads the answer with surrounding blanks removed.
func (c *Console) Prompt(prompt string) (string, error) {
	c.Print(prompt)
	line, err := c.ReadLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) Print(text string) {
	fmt.Fprint(c.writer, text)
}

func (c *Console) Println(text string) {
	fmt.Fprintln(c.writer, text)
}

// Printf formats a full line.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.writer, format+"\n", args...)
}

var answers = map[string]bool{
	"y": true, "yes": true, "是": true,
	"n": false, "no": false, "否": false,
}

// Confirm asks a yes/no question until it gets an answer. Running out of
// input counts as no.
func (c *Console) Confirm(question string) (bool, error) {
	for {
		answer, err := c.Prompt(question + " (y/n): ")
		if err == io.EOF {
			c.Println("")
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if yes, ok := answers[strings.ToLower(answer)]; ok {
			return yes, nil
		}
		c.Println("请输入 y 或 n")
	}
}
