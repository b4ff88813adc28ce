//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	// Export functions to JavaScript
	js.Global().Set("PDFCompareNewScheduler", js.FuncOf(newScheduler))
	js.Global().Set("PDFCompareSubmit", js.FuncOf(submit))
	js.Global().Set("PDFCompareTick", js.FuncOf(tick))
	js.Global().Set("PDFCompareStatus", js.FuncOf(status))
	js.Global().Set("PDFCompareCloseScheduler", js.FuncOf(closeScheduler))

	// Keep WASM running
	<-make(chan struct{})
}
