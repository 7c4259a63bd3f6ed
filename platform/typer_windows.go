//go:build windows

package platform

import (
	"fmt"
	"time"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32    = windows.NewLazySystemDLL("user32.dll")
	sendInput = user32.NewProc("SendInput")
)

const (
	inputKeyboard    = 1
	keyeventfKeyup   = 0x0002
	keyeventfUnicode = 0x0004
	vkReturn         = 0x0D
	vkTab            = 0x09

	// inputs per SendInput call
	chunkSize = 64
)

type keyboardInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type input struct {
	inputType uint32
	ki        keyboardInput
	padding   [8]byte // Padding to match C struct size
}

// WindowsTyper implements the Typer interface with SendInput
type WindowsTyper struct{}

// NewTyper creates a new Windows typer instance
func NewTyper() Typer {
	return &WindowsTyper{}
}

// Type sends text character by character. Characters go out as Unicode
// key events so the active keyboard layout does not matter. A line break
// (LF, CRLF or a lone CR) is one Enter key and tab is the Tab key.
func (t *WindowsTyper) Type(text string) error {
	inputs := buildInputs(text)

	for start := 0; start < len(inputs); start += chunkSize {
		end := min(start+chunkSize, len(inputs))
		batch := inputs[start:end]

		ret, _, err := sendInput.Call(
			uintptr(len(batch)),
			uintptr(unsafe.Pointer(&batch[0])),
			unsafe.Sizeof(batch[0]),
		)
		if int(ret) != len(batch) {
			return fmt.Errorf("SendInput failed after %d of %d events: %w", start+int(ret), len(inputs), err)
		}

		// Give the target a moment to drain its input queue
		time.Sleep(5 * time.Millisecond)
	}

	return nil
}

func buildInputs(text string) []input {
	var inputs []input
	prev := rune(0)
	for _, r := range text {
		cr := prev == '\r'
		prev = r
		switch r {
		case '\r':
			inputs = append(inputs, vkPress(vkReturn)...)
			continue
		case '\n':
			if !cr {
				inputs = append(inputs, vkPress(vkReturn)...)
			}
			continue
		case '\t':
			inputs = append(inputs, vkPress(vkTab)...)
			continue
		}

		units := []uint16{uint16(r)}
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			units = []uint16{uint16(hi), uint16(lo)}
		}
		for _, u := range units {
			inputs = append(inputs,
				input{inputType: inputKeyboard, ki: keyboardInput{wScan: u, dwFlags: keyeventfUnicode}},
				input{inputType: inputKeyboard, ki: keyboardInput{wScan: u, dwFlags: keyeventfUnicode | keyeventfKeyup}},
			)
		}
	}
	return inputs
}

func vkPress(vk uint16) []input {
	return []input{
		{inputType: inputKeyboard, ki: keyboardInput{wVk: vk}},
		{inputType: inputKeyboard, ki: keyboardInput{wVk: vk, dwFlags: keyeventfKeyup}},
	}
}
