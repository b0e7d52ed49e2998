package runtime

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/pkg/errors"
)

// Host is the narrow I/O capability built-in functions use to reach the
// outside world.
type Host interface {
	WriteLine(text string) error
	ReadLine() (string, error)
	// ReadInteger reads lines until one parses as an integer.
	ReadInteger() (int64, error)
	ClearScreen() error
	ReadFile(path string) ([]byte, error)
}

// Console is a Host over a line-oriented reader and a writer, normally the
// process's standard streams.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole returns a console reading from in and writing to out. A
// *bufio.Reader is used as is so callers can share it.
func NewConsole(in io.Reader, out io.Writer) *Console {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &Console{in: br, out: out}
}

// NewStdConsole returns a console over os.Stdin and os.Stdout.
func NewStdConsole() *Console {
	return NewConsole(os.Stdin, os.Stdout)
}

func (c *Console) WriteLine(text string) error {
	_, err := fmt.Fprintln(c.out, text)
	return errors.Wrap(err, "write output")
}

func (c *Console) ReadLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", errors.Wrap(err, "read input")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) ReadInteger() (int64, error) {
	for {
		line, err := c.ReadLine()
		if err != nil {
			return 0, err
		}
		if n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64); err == nil {
			return n, nil
		}
		if err := c.WriteLine(fmt.Sprintf("'%s' must be an integer. Try again!", line)); err != nil {
			return 0, err
		}
	}
}

func (c *Console) ClearScreen() error {
	_, err := io.WriteString(c.out, ansi.EraseEntireScreen+ansi.CursorHomePosition)
	return errors.Wrap(err, "clear screen")
}

// ReadFile loads a script, dropping a leading #! line.
func (c *Console) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return skipShebang(data), nil
}

func skipShebang(data []byte) []byte {
	if !bytes.HasPrefix(data, []byte("#!")) {
		return data
	}
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		// Keep the newline so line numbers still match the file.
		return data[idx:]
	}
	return []byte{}
}
