package export

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard receives exported content.
type Clipboard interface {
	WriteText(text string) error
	WriteImage(png []byte) error
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteText copies text. It fails with ErrClipboardUnsupported when no
// clipboard utility is available.
func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboardUnsupported, err)
	}
	return nil
}

// WriteImage always fails; the system clipboard only carries text.
func (SystemClipboard) WriteImage([]byte) error {
	return fmt.Errorf("%w: image content", ErrClipboardUnsupported)
}
