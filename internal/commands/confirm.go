package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ConfirmAction writes prompt to w and reads a line from r.
// Returns true only if the user typed 'yes'.
func ConfirmAction(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprint(w, prompt)

	reader := bufio.NewReader(r)
	confirm, _ := reader.ReadString('\n')
	confirm = strings.TrimSpace(confirm)

	return confirm == "yes"
}
