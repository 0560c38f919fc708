// Package terminal provides small terminal helpers shared by the interactive
// commands.
package terminal

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/term"
)

// ClearPrompt erases a just-entered prompt line from the terminal so
// credentials and connection strings do not linger in the scrollback.
// textLength is the prompt plus the user's input; line wrapping at the
// current terminal width is accounted for.
func ClearPrompt(textLength int) {
	termWidth := 80
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		termWidth = width
	}

	totalLines := int(math.Ceil(float64(textLength) / float64(termWidth)))
	if totalLines < 1 {
		totalLines = 1
	}

	// After Enter the cursor sits on a fresh line below the input, so one
	// extra line needs clearing.
	linesToClear := totalLines + 1

	for i := 0; i < linesToClear; i++ {
		fmt.Print("\r\x1b[2K")
		if i < linesToClear-1 {
			fmt.Print("\x1b[1A")
		}
	}
}
