package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// promptInput is where confirm reads answers from. Swapped in tests.
var promptInput io.Reader = os.Stdin

// confirm asks the user a yes/no question. The --yes flag answers every
// prompt affirmatively for scripted use.
func confirm(question string) bool {
	if assumeYes {
		return true
	}

	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(promptInput)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
